package fsm

// doEntryActions enters the states on the entry path, delivers BEGIN to the
// pending target and repeats for every initial transition requested from
// BEGIN. The last target reached becomes the current state.
func (m *Machine) doEntryActions() {
	var target *State
	m.rt.current = nil

	for {
		for s := m.rt.path.pop(); s != nil; s = m.rt.path.pop() {
			m.deliver(s, enterEvent)
		}

		target = m.rt.target
		m.rt.target = nil
		m.rt.initial = true
		m.deliver(target, beginEvent)
		m.rt.initial = false

		next := m.rt.target
		if next == nil {
			break
		}
		if m.hooks.OnTransition != nil {
			m.hooks.OnTransition(m, target, next)
		}
		m.recordEntryPath(target, next)
		if m.rt.path.size == 0 {
			m.violate(InitialTarget, next, "initial transition target must be a proper descendant of "+target.name)
		}
	}

	m.rt.current = target
	if m.enabled(LevelDebug) {
		m.logf(LevelDebug, "Entry completed; current state is %s", target.name)
	}
	if m.hooks.OnSettle != nil {
		m.hooks.OnSettle(m, target)
	}
}

// recordEntryPath records the states from descendant up to, but excluding,
// ancestor.
func (m *Machine) recordEntryPath(ancestor, descendant *State) {
	m.rt.path.reset()
	for s := descendant; s != ancestor; s = m.parentOf(s) {
		if s == &m.root {
			m.violate(InitialTarget, descendant, "initial transition target must be a descendant of "+ancestor.name)
		}
		if m.rt.path.full() {
			m.violate(NestingDepth, descendant, "entry path exceeds the maximum nesting depth")
		}
		m.rt.path.push(s)
	}
}
