package fsm

// Behavior is implemented by types that handle the events of one state as a
// method instead of a Handler function.
//
// Example:
//
//	type Outdoors struct{}
//
//	func (Outdoors) OnEvent(m *fsm.Machine, e fsm.Event) fsm.Result {
//	    if e.ID == evWind {
//	        m.BeginTransition(shelter)
//	        return fsm.Handled
//	    }
//	    return fsm.Unhandled
//	}
//
//	outdoors := fsm.NewBehaviorState("outdoors", Outdoors{})
type Behavior interface {
	OnEvent(m *Machine, e Event) Result
}

// NewBehaviorState returns a state whose events are handled by b.
func NewBehaviorState(name string, b Behavior) *State {
	return new(State).InitBehavior(name, b)
}

// InitBehavior initializes caller-owned state storage to dispatch its events
// to b and returns s.
func (s *State) InitBehavior(name string, b Behavior) *State {
	if b == nil {
		return s.Init(nil, name)
	}
	return s.Init(func(_ *State, m *Machine, e Event) Result {
		return b.OnEvent(m, e)
	}, name)
}
