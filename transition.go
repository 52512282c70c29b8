package fsm

import "fmt"

// BeginTransition requests a transition to target. It may only be called
// from a state handler while it handles a user event, or while it handles
// BEGIN; the handler must then return Handled. At most one request is
// allowed per handler activation.
//
// From a user event handler this is a regular transition: the states from
// the current leaf up to the requesting state (the main source) are exited
// immediately, then exits continue up to, but excluding, the point where the
// source and target configurations meet. The target configuration is
// entered after the handler returns.
//
// From a BEGIN handler this is an initial transition: target must be a
// proper descendant of the state receiving BEGIN and nothing is exited.
//
// Called from a handler, the returned error is always nil: a violation
// aborts the handler and is reported by the outermost DispatchEvent or
// Start. Outside any handler it returns the TransitionScope violation when
// CatchViolations is set, or the fault of a faulted machine.
func (m *Machine) BeginTransition(target *State) (err error) {
	outer, err := m.acquire()
	if err != nil {
		return err
	}
	defer m.release(outer, &err)

	if outer {
		m.violate(TransitionScope, target, "transition requested outside of a state handler")
	}
	if !target.initialized() {
		m.violate(UninitializedState, target, "transition target was never inserted")
	}
	if target.machine != m {
		m.violate(ForeignState, target, "transition target belongs to another machine")
	}
	if m.enabled(LevelDebug) {
		m.logf(LevelDebug, "requesting transition to %s", target.name)
	}
	if m.rt.scoped {
		m.violate(TransitionScope, target, "transition requested from the scope of ENTER or EXIT")
	}
	if m.rt.target != nil {
		m.violate(DoubleTransition, target, fmt.Sprintf(
			"transition to %s already requested", m.rt.target.name))
	}

	m.rt.target = target
	if m.rt.initial {
		// doEntryActions records the entry path of initial transitions.
		return nil
	}
	if m.rt.current == nil || m.rt.source == nil {
		m.violate(TransitionScope, target, "transition requested outside of event dispatch")
	}
	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(m, m.rt.source, target)
	}
	m.exitToward(target)
	return nil
}

// exitToward exits the active configuration for a regular transition from
// the dispatch source to target and records the entry path of target.
func (m *Machine) exitToward(target *State) {
	source := m.rt.source
	s := m.rt.current
	m.rt.current = nil

	// exit the active configuration below the main source
	for ; s != source; s = m.parentOf(s) {
		m.deliver(s, exitEvent)
	}

	m.rt.path.reset()

	// peers, including a self-transition: exit source, enter target
	if source.parent == target.parent {
		m.deliver(source, exitEvent)
		m.rt.path.push(target)
		return
	}

	// target below source: keep source, enter down to target
	for s = target; s != &m.root; s = m.parentOf(s) {
		if s == source {
			return
		}
		m.rt.path.push(s)
	}

	// The path now runs from target up to its top-level ancestor. Exit source
	// and its ancestors until one of them is on that path: either their least
	// common ancestor or target itself, which is neither exited nor entered.
	m.deliver(source, exitEvent)
	for s = m.parentOf(source); s != &m.root; s = m.parentOf(s) {
		if i := m.rt.path.index(s); i >= 0 {
			m.rt.path.truncate(i)
			return
		}
		m.deliver(s, exitEvent)
	}
	// disjoint below Root: the whole path from target's top-level ancestor
	// is entered
}
