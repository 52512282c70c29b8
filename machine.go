// Package fsm provides a hierarchical state machine (HSM) engine for
// resource-constrained programs.
//
// # Overview
//
// A Machine tracks a single current state inside a tree of user states and
// routes events to it. An event not handled by the current state bubbles to
// its ancestors. A handler may request a transition with BeginTransition; the
// engine then exits and enters states following UML 2 local-transition
// semantics: a state common to the source and target configurations is never
// exited and re-entered.
//
// Three reserved events drive state lifecycle: ENTER and EXIT are delivered
// to every state entered or exited, and BEGIN to the final target of a
// transition, whose handler may chain an initial transition to a proper
// descendant.
//
// All state storage is owned by the caller, nesting depth is bounded by
// MaxDepth and the dispatch path does not allocate. A Machine is not safe
// for concurrent use; distinct machines are independent.
//
// # Usage
//
//	m := fsm.New("door")
//	closed := fsm.NewState(onClosed, "closed")
//	open := fsm.NewState(onOpen, "open")
//	m.InsertState(closed, nil)
//	m.InsertState(open, nil)
//	m.Start(closed)
//	m.DispatchEvent(fsm.NewEvent(evOpen))
//
// # Contract violations
//
// Programmer errors (re-entrant dispatch, a second transition request, an
// initial transition to a non-descendant, ...) are reported to the log sink
// at FATAL level and then abort the call with a panic carrying a
// *ViolationError. Config.CatchViolations turns the panic into an error
// returned by the outermost call.
package fsm

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Config provides configuration options for machine initialization.
type Config struct {
	// ID is a unique identifier for the machine instance used in log lines.
	// Defaults to a ULID.
	ID string
	// Sink receives diagnostics. Nil disables logging.
	Sink Sink
	// Cookie is passed back to Sink with every line.
	Cookie any
	// LogLevel is the minimum level forwarded to Sink. Zero means LevelInfo.
	LogLevel Level
	// Hooks observe deliveries, transitions and violations.
	Hooks Hooks
	// CatchViolations makes the outermost public call return a
	// *ViolationError instead of panicking.
	CatchViolations bool
}

// runtime is the transient state of one call into the engine. It is reset
// by Start.
type runtime struct {
	// current is the active leaf, nil while between states.
	current *State
	// source is the state receiving the event during a dispatch walk.
	source *State
	// target is the pending transition target.
	target *State
	// path holds the states still to be entered.
	path entryPath
	// initial is set while BEGIN is being delivered.
	initial bool
	// scoped is set while ENTER or EXIT is being delivered.
	scoped bool
}

// Machine is a hierarchical state machine instance.
type Machine struct {
	name string
	id   string
	root State
	// states is the arena of inserted states; states[0] is root.
	states []*State

	sink   Sink
	cookie any
	level  Level
	hooks  Hooks

	catch   bool
	started bool
	// depth counts public calls currently on the stack.
	depth int
	fault *ViolationError

	rt runtime
}

// New creates a machine with the given display name.
func New(name string, maybeConfig ...Config) *Machine {
	return new(Machine).Init(name, maybeConfig...)
}

// Init initializes caller-owned machine storage and returns m. Any previous
// content, including inserted states, is discarded.
func (m *Machine) Init(name string, maybeConfig ...Config) *Machine {
	if name == "" {
		name = unnamedMachine
	}
	*m = Machine{
		name:  name,
		level: LevelInfo,
	}
	m.root.Init(rootHandler, rootName)
	m.root.machine = m
	m.root.index = 0
	m.states = append(m.states, &m.root)
	if len(maybeConfig) > 0 {
		config := maybeConfig[0]
		m.id = config.ID
		m.sink = config.Sink
		m.cookie = config.Cookie
		m.hooks = config.Hooks
		m.catch = config.CatchViolations
		if config.LogLevel != 0 {
			m.level = config.LogLevel
		}
	}
	if m.id == "" {
		m.id = ulid.Make().String()
	}
	return m
}

// Name returns the display name of the machine.
func (m *Machine) Name() string { return m.name }

// ID returns the instance identifier of the machine.
func (m *Machine) ID() string { return m.id }

// Started reports whether Start completed successfully.
func (m *Machine) Started() bool { return m.started && m.fault == nil }

// Current returns the active leaf state, or nil before Start and while a
// transition is in progress.
func (m *Machine) Current() *State { return m.rt.current }

// Fault returns the violation that faulted the machine, if any.
func (m *Machine) Fault() error {
	if m.fault == nil {
		return nil
	}
	return m.fault
}

// States returns the inserted user states in insertion order.
func (m *Machine) States() []*State {
	if len(m.states) <= 1 {
		return nil
	}
	states := make([]*State, len(m.states)-1)
	copy(states, m.states[1:])
	return states
}

// parentOf returns the parent of s, Root for top-level states and nil for
// Root itself.
func (m *Machine) parentOf(s *State) *State {
	if s.parent == noParent {
		return nil
	}
	return m.states[s.parent]
}

// InsertState adds s to the tree below parent, or below Root when parent is
// nil. All states must be inserted before Start.
func (m *Machine) InsertState(s *State, parent *State) (err error) {
	outer, err := m.acquire()
	if err != nil {
		return err
	}
	defer m.release(outer, &err)
	if m.started {
		return ErrAlreadyStarted
	}
	if s == nil || s.handler == nil {
		m.violate(UninitializedState, s, "inserting a state without a handler")
	}
	if s.machine != nil {
		m.violate(DuplicateInsert, s, "state already inserted")
	}
	parentIndex := 0
	if parent != nil {
		if parent.machine != m || parent.parent == noParent {
			m.violate(ForeignState, parent, "parent is not a state of this machine")
		}
		parentIndex = parent.index
	}
	depth := m.states[parentIndex].depth + 1
	if depth > MaxDepth {
		m.violate(NestingDepth, s, fmt.Sprintf("nesting depth %d exceeds %d", depth, MaxDepth))
	}
	s.machine = m
	s.index = len(m.states)
	s.parent = parentIndex
	s.depth = depth
	m.states = append(m.states, s)
	return nil
}

// Start enters the path from Root to initial, delivers BEGIN to initial and
// follows any chained initial transitions. It must be called exactly once,
// after all states are inserted and not from within a handler.
func (m *Machine) Start(initial *State) (err error) {
	outer, err := m.acquire()
	if err != nil {
		return err
	}
	defer m.release(outer, &err)
	if !outer {
		m.violate(NestedStart, initial, "start requested from the scope of a handler")
	}
	if m.started {
		return ErrAlreadyStarted
	}
	if !initial.initialized() {
		m.violate(UninitializedState, initial, "initial state was never inserted")
	}
	if initial.machine != m {
		m.violate(ForeignState, initial, "initial state belongs to another machine")
	}
	m.started = true
	m.rt = runtime{}
	m.recordEntryPath(&m.root, initial)
	m.rt.target = initial
	m.doEntryActions()
	return nil
}

// acquire registers a public call. outer is true for the outermost call on
// the stack.
func (m *Machine) acquire() (outer bool, err error) {
	if m == nil {
		panic("fsm: nil machine")
	}
	if m.fault != nil {
		return false, m.fault
	}
	outer = m.depth == 0
	m.depth++
	return outer, nil
}

// release unregisters a public call. The outermost call of a machine
// configured with CatchViolations converts a violation panic into err.
// A foreign panic leaving a handler abandons the interrupted call before it
// propagates.
func (m *Machine) release(outer bool, err *error) {
	m.depth--
	if !outer {
		return
	}
	r := recover()
	if r == nil {
		return
	}
	m.depth = 0
	violation, ok := r.(*ViolationError)
	if !ok {
		m.abandon(r)
		panic(r)
	}
	if !m.catch {
		panic(violation)
	}
	*err = violation
}

// abandon clears the runtime block after a foreign panic. A panic outside a
// transition leaves the current state active; one raised while states were
// being exited or entered faults the machine.
func (m *Machine) abandon(r any) {
	current := m.rt.current
	interrupted := current == nil || m.rt.target != nil || m.rt.initial || m.rt.scoped
	m.rt = runtime{current: current}
	if !interrupted {
		return
	}
	m.rt.current = nil
	violation := &ViolationError{
		Kind:    InterruptedTransition,
		Machine: m.name,
		State:   current.Name(),
		Message: fmt.Sprintf("handler panicked during a transition: %v", r),
	}
	m.fault = violation
	m.logf(LevelFatal, "ERROR: %s: %s", violation.Kind, violation.Message)
	if m.hooks.OnViolation != nil {
		m.hooks.OnViolation(m, violation)
	}
}

// violate reports a contract violation and aborts the current call.
func (m *Machine) violate(kind ViolationKind, s *State, message string) {
	violation := &ViolationError{
		Kind:    kind,
		Machine: m.name,
		State:   s.Name(),
		Message: message,
	}
	m.fault = violation
	m.logf(LevelFatal, "ERROR: %s: %s", kind, message)
	if m.hooks.OnViolation != nil {
		m.hooks.OnViolation(m, violation)
	}
	panic(violation)
}
