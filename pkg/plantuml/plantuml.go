// Package plantuml renders the state tree of a machine as a PlantUML state
// diagram.
//
// Transitions are requested by handler code, so the tree alone does not
// know them. A Recorder observes a running machine through its hooks and
// collects the transitions that actually happened; Generate draws them when
// given the recorder.
package plantuml

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/openwebos/fsm"
)

// Transition is an observed transition.
type Transition struct {
	Source *fsm.State
	Target *fsm.State
	// Event is the user event that triggered a regular transition.
	Event fsm.EventID
	// Initial is set for transitions requested while handling BEGIN.
	Initial bool
}

// Recorder collects the transitions of a machine.
type Recorder struct {
	// EventName labels transitions. Defaults to "EVT.<id>".
	EventName func(id fsm.EventID) string

	start       *fsm.State
	transitions []Transition
	seen        map[Transition]struct{}
	// unlabeled is the index of the first transition waiting for the event
	// of the running dispatch.
	unlabeled int
}

// Hooks returns the machine hooks feeding r.
func (r *Recorder) Hooks() fsm.Hooks {
	return fsm.Hooks{
		OnBegin: func(m *fsm.Machine, s *fsm.State) {
			if r.start == nil {
				r.start = s
			}
		},
		OnTransition: func(m *fsm.Machine, source, target *fsm.State) {
			// the current state is cleared while initial transitions run
			r.transitions = append(r.transitions, Transition{
				Source:  source,
				Target:  target,
				Initial: m.Current() == nil,
			})
		},
		OnDispatch: func(m *fsm.Machine, e fsm.Event, handled bool) {
			for i := r.unlabeled; i < len(r.transitions); i++ {
				if !r.transitions[i].Initial {
					r.transitions[i].Event = e.ID
				}
			}
			r.unlabeled = len(r.transitions)
		},
	}
}

// Transitions returns the distinct transitions observed so far in the order
// they first happened.
func (r *Recorder) Transitions() []Transition {
	if r.seen == nil {
		r.seen = map[Transition]struct{}{}
	}
	var distinct []Transition
	clear(r.seen)
	for _, t := range r.transitions {
		if _, ok := r.seen[t]; ok {
			continue
		}
		r.seen[t] = struct{}{}
		distinct = append(distinct, t)
	}
	return distinct
}

func (r *Recorder) eventName(id fsm.EventID) string {
	if r.EventName != nil {
		return r.EventName(id)
	}
	return "EVT." + id.String()
}

func idFromName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, name)
}

// stateID returns the dotted path of s from its top-level ancestor.
func stateID(s *fsm.State) string {
	id := idFromName(s.Name())
	for parent := s.Parent(); parent != nil; parent = parent.Parent() {
		id = idFromName(parent.Name()) + "." + id
	}
	return id
}

type generator struct {
	builder  strings.Builder
	machine  *fsm.Machine
	children map[*fsm.State][]*fsm.State
	initials map[*fsm.State][]Transition
}

func (g *generator) generateState(depth int, state *fsm.State) {
	indent := strings.Repeat(" ", depth*2)
	id := stateID(state)
	tag := ""
	if state == g.machine.Current() {
		tag = " #LightBlue"
	}
	children := g.children[state]
	if len(children) == 0 {
		fmt.Fprintf(&g.builder, "%sstate %s%s\n", indent, id, tag)
		return
	}
	fmt.Fprintf(&g.builder, "%sstate %s%s {\n", indent, id, tag)
	for _, child := range children {
		g.generateState(depth+1, child)
	}
	for _, t := range g.initials[state] {
		fmt.Fprintf(&g.builder, "%s  [*] ----> %s\n", indent, stateID(t.Target))
	}
	fmt.Fprintf(&g.builder, "%s}\n", indent)
}

// Generate writes the state tree of m to writer. The current state is
// highlighted. With a recorder, the start state and the observed
// transitions are drawn too.
func Generate(writer io.Writer, m *fsm.Machine, maybeRecorder ...*Recorder) error {
	g := &generator{
		machine:  m,
		children: map[*fsm.State][]*fsm.State{},
		initials: map[*fsm.State][]Transition{},
	}
	var top []*fsm.State
	for _, s := range m.States() {
		if parent := s.Parent(); parent != nil {
			g.children[parent] = append(g.children[parent], s)
		} else {
			top = append(top, s)
		}
	}
	var recorder *Recorder
	var transitions []Transition
	if len(maybeRecorder) > 0 && maybeRecorder[0] != nil {
		recorder = maybeRecorder[0]
		transitions = recorder.Transitions()
		for _, t := range transitions {
			if t.Initial {
				g.initials[t.Source] = append(g.initials[t.Source], t)
			}
		}
	}

	fmt.Fprintf(&g.builder, "@startuml %s\n", idFromName(m.Name()))
	for _, s := range top {
		g.generateState(0, s)
	}
	if recorder != nil {
		if recorder.start != nil {
			fmt.Fprintf(&g.builder, "[*] ----> %s\n", stateID(recorder.start))
		}
		for _, t := range transitions {
			if t.Initial {
				continue
			}
			fmt.Fprintf(&g.builder, "%s ----> %s : %s\n", stateID(t.Source), stateID(t.Target), recorder.eventName(t.Event))
		}
	}
	fmt.Fprintln(&g.builder, "@enduml")
	_, err := io.WriteString(writer, g.builder.String())
	return err
}
