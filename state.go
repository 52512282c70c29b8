package fsm

// MaxDepth is the maximum nesting depth of user states below Root. It also
// bounds the entry path buffer.
const MaxDepth = 10

const (
	unnamedState   = "<UNNAMED-STATE>"
	unnamedMachine = "<UNNAMED-FSM>"
	rootName       = "<ROOT>"
)

// noParent is the parent index of Root and of states not yet inserted.
const noParent = -1

// Handler processes one event delivered to state s of machine m. It returns
// Handled if it consumed the event (or requested a transition), Unhandled to
// let a user event bubble to the parent state. The verdict is ignored for
// reserved events.
type Handler func(s *State, m *Machine, e Event) Result

// State is a node of a machine's state tree. Its storage belongs to the
// caller; it may be embedded in a larger struct and initialized in place
// with Init. A State is inserted into exactly one Machine and never removed.
//
// Example:
//
//	type Door struct {
//	    fsm.State
//	    open bool
//	}
//
//	door := &Door{}
//	door.Init(doorHandler, "door")
type State struct {
	handler Handler
	name    string
	machine *Machine
	// index and parent address the owning machine's arena.
	index  int
	parent int
	depth  int
}

// NewState returns a state with the given handler and display name.
func NewState(handler Handler, name string) *State {
	return new(State).Init(handler, name)
}

// Init initializes caller-owned state storage and returns s. It must not be
// called on a state that was already inserted into a machine.
func (s *State) Init(handler Handler, name string) *State {
	if name == "" {
		name = unnamedState
	}
	*s = State{
		handler: handler,
		name:    name,
		index:   noParent,
		parent:  noParent,
	}
	return s
}

// Name returns the display name of the state.
func (s *State) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Machine returns the machine the state was inserted into, or nil.
func (s *State) Machine() *Machine {
	if s == nil {
		return nil
	}
	return s.machine
}

// Parent returns the parent state, or nil for a top-level state (a child of
// the implicit Root) and for states that were never inserted.
func (s *State) Parent() *State {
	if s == nil || s.machine == nil || s.parent <= 0 {
		return nil
	}
	return s.machine.states[s.parent]
}

// Depth returns the nesting depth below Root: 1 for top-level states, 0 for
// states that were never inserted.
func (s *State) Depth() int {
	if s == nil {
		return 0
	}
	return s.depth
}

func (s *State) String() string {
	return s.Name()
}

// initialized reports whether s can be a dispatch or transition target.
func (s *State) initialized() bool {
	return s != nil && s.handler != nil && s.machine != nil && s.parent != noParent
}

// rootHandler is the handler of every machine's implicit Root. Root never
// receives reserved events and never handles user events.
func rootHandler(s *State, m *Machine, e Event) Result {
	return Unhandled
}
