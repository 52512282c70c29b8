package fsm

// Hooks observe a machine. Every field is optional. Hooks run synchronously
// on the dispatching goroutine and must not call back into the machine.
type Hooks struct {
	// OnEnter is called after ENTER was delivered to s.
	OnEnter func(m *Machine, s *State)
	// OnExit is called after EXIT was delivered to s.
	OnExit func(m *Machine, s *State)
	// OnBegin is called after BEGIN was delivered to s.
	OnBegin func(m *Machine, s *State)
	// OnEvent is called after a user event was delivered to s.
	OnEvent func(m *Machine, s *State, e Event, r Result)
	// OnDispatch is called when DispatchEvent completes.
	OnDispatch func(m *Machine, e Event, handled bool)
	// OnTransition is called when source requests a transition to target,
	// before any exit. For initial transitions source received BEGIN.
	OnTransition func(m *Machine, source, target *State)
	// OnSettle is called once the machine has a new current state.
	OnSettle func(m *Machine, current *State)
	// OnViolation is called before a violation aborts the call.
	OnViolation func(m *Machine, v *ViolationError)
}

// Chain returns Hooks calling each of hooks in order.
func Chain(hooks ...Hooks) Hooks {
	return Hooks{
		OnEnter: func(m *Machine, s *State) {
			for _, h := range hooks {
				if h.OnEnter != nil {
					h.OnEnter(m, s)
				}
			}
		},
		OnExit: func(m *Machine, s *State) {
			for _, h := range hooks {
				if h.OnExit != nil {
					h.OnExit(m, s)
				}
			}
		},
		OnBegin: func(m *Machine, s *State) {
			for _, h := range hooks {
				if h.OnBegin != nil {
					h.OnBegin(m, s)
				}
			}
		},
		OnEvent: func(m *Machine, s *State, e Event, r Result) {
			for _, h := range hooks {
				if h.OnEvent != nil {
					h.OnEvent(m, s, e, r)
				}
			}
		},
		OnDispatch: func(m *Machine, e Event, handled bool) {
			for _, h := range hooks {
				if h.OnDispatch != nil {
					h.OnDispatch(m, e, handled)
				}
			}
		},
		OnTransition: func(m *Machine, source, target *State) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(m, source, target)
				}
			}
		},
		OnSettle: func(m *Machine, current *State) {
			for _, h := range hooks {
				if h.OnSettle != nil {
					h.OnSettle(m, current)
				}
			}
		},
		OnViolation: func(m *Machine, v *ViolationError) {
			for _, h := range hooks {
				if h.OnViolation != nil {
					h.OnViolation(m, v)
				}
			}
		},
	}
}

// SetHooks replaces the machine's hooks.
func (m *Machine) SetHooks(hooks Hooks) {
	m.hooks = hooks
}

func (m *Machine) observe(s *State, event Event, result Result) {
	switch event.ID {
	case EventEnter:
		if m.hooks.OnEnter != nil {
			m.hooks.OnEnter(m, s)
		}
	case EventExit:
		if m.hooks.OnExit != nil {
			m.hooks.OnExit(m, s)
		}
	case EventBegin:
		if m.hooks.OnBegin != nil {
			m.hooks.OnBegin(m, s)
		}
	default:
		if m.hooks.OnEvent != nil {
			m.hooks.OnEvent(m, s, event, result)
		}
	}
}
