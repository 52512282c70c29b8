package fsm

import "fmt"

// DispatchEvent delivers a user event to the current state and then to its
// ancestors until one handles it. It returns whether some state handled the
// event; an unhandled event is not an error.
//
// If the handling state requested a transition, the exits were already
// performed by BeginTransition; DispatchEvent then enters the target
// configuration and resolves initial transitions before returning.
//
// DispatchEvent must not be called from the scope of a handler or a hook of
// the same machine.
func (m *Machine) DispatchEvent(event Event) (handled bool, err error) {
	outer, err := m.acquire()
	if err != nil {
		return false, err
	}
	defer m.release(outer, &err)

	if m.rt.current == nil {
		m.violate(NullTarget, nil, fmt.Sprintf(
			"attempting to dispatch EVT.%s; probably re-entered from the scope of ENTER, EXIT, or BEGIN event handler", event))
	}
	if !outer || m.rt.source != nil {
		m.violate(RunToCompletion, m.rt.current, fmt.Sprintf(
			"attempting to dispatch EVT.%s to %s from the scope of active dispatch", event, m.rt.current.name))
	}
	if event.Reserved() {
		m.violate(ReservedEvent, m.rt.current, fmt.Sprintf("EVT.%s cannot be dispatched by the user", event))
	}

	result := Unhandled
	m.rt.source = m.rt.current
	for {
		source := m.rt.source
		result = m.deliver(source, event)
		if m.rt.target != nil && result != Handled {
			m.violate(DeclinedTransition, source, fmt.Sprintf(
				"can't pass EVT.%s to parent after transition request to state %s", event, m.rt.target.name))
		}
		if result == Handled {
			break
		}
		parent := m.parentOf(source)
		if parent == &m.root {
			break
		}
		m.rt.source = parent
	}
	m.rt.source = nil

	handled = result == Handled
	if handled && m.rt.target != nil {
		m.doEntryActions()
	}
	if m.hooks.OnDispatch != nil {
		m.hooks.OnDispatch(m, event, handled)
	}
	return handled, nil
}

// deliver invokes the handler of s with event. It is the single point where
// handlers run.
func (m *Machine) deliver(s *State, event Event) Result {
	var line string
	if m.sink != nil {
		level := LevelDebug
		if event.ID == EventEnter {
			level = LevelInfo
		}
		if m.enabled(level) {
			line = fmt.Sprintf("EVT.%s ==> %s", event, s.name)
			m.logf(level, "%s", line)
		}
	}

	scoped := m.rt.scoped
	m.rt.scoped = event.ID == EventEnter || event.ID == EventExit
	result := s.handler(s, m, event)
	m.rt.scoped = scoped

	if line != "" && m.enabled(LevelDebug) {
		m.logf(LevelDebug, "<-- %s (%s)", result, line)
	}
	m.observe(s, event, result)
	return result
}
