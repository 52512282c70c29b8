package fsm_test

import (
	"fmt"
	"testing"

	"github.com/openwebos/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	evGo fsm.EventID = iota
	evStay
	evNoop
)

// Trace records the reserved events delivered to each state, such as
// "EXIT(b)", and the user events as "EVT.0(b)".
type Trace struct {
	reserved []string
	user     []string
}

func (t *Trace) reset() {
	t.reserved = nil
	t.user = nil
}

// harness builds a machine whose states log every delivery and react to
// user events as configured.
type harness struct {
	t      *testing.T
	m      *fsm.Machine
	trace  Trace
	states map[string]*fsm.State
	// initial maps a state to the target of its initial transition.
	initial map[string]string
	// on maps state and event to a transition target. An empty target
	// handles the event without a transition.
	on map[string]map[fsm.EventID]string
}

func newHarness(t *testing.T, maybeConfig ...fsm.Config) *harness {
	h := &harness{
		t:       t,
		states:  map[string]*fsm.State{},
		initial: map[string]string{},
		on:      map[string]map[fsm.EventID]string{},
	}
	h.m = fsm.New("Test", maybeConfig...)
	return h
}

func (h *harness) handle(s *fsm.State, m *fsm.Machine, e fsm.Event) fsm.Result {
	switch e.ID {
	case fsm.EventEnter, fsm.EventExit:
		h.trace.reserved = append(h.trace.reserved, fmt.Sprintf("%s(%s)", e, s.Name()))
		return fsm.Unhandled
	case fsm.EventBegin:
		h.trace.reserved = append(h.trace.reserved, fmt.Sprintf("%s(%s)", e, s.Name()))
		if target, ok := h.initial[s.Name()]; ok {
			require.NoError(h.t, m.BeginTransition(h.states[target]))
			return fsm.Handled
		}
		return fsm.Unhandled
	}
	h.trace.user = append(h.trace.user, fmt.Sprintf("EVT.%s(%s)", e, s.Name()))
	target, ok := h.on[s.Name()][e.ID]
	if !ok {
		return fsm.Unhandled
	}
	if target != "" {
		require.NoError(h.t, m.BeginTransition(h.states[target]))
	}
	return fsm.Handled
}

// add inserts a state below parent, or below Root when parent is empty.
func (h *harness) add(name, parent string) *fsm.State {
	s := fsm.NewState(h.handle, name)
	var p *fsm.State
	if parent != "" {
		p = h.states[parent]
		require.NotNil(h.t, p, "unknown parent %s", parent)
	}
	require.NoError(h.t, h.m.InsertState(s, p))
	h.states[name] = s
	return s
}

func (h *harness) transition(source string, event fsm.EventID, target string) {
	if h.on[source] == nil {
		h.on[source] = map[fsm.EventID]string{}
	}
	h.on[source][event] = target
}

func (h *harness) start(initial string) {
	require.NoError(h.t, h.m.Start(h.states[initial]))
	h.trace.reset()
}

func (h *harness) dispatch(id fsm.EventID) bool {
	handled, err := h.m.DispatchEvent(fsm.NewEvent(id))
	require.NoError(h.t, err)
	return handled
}

func (h *harness) current() string {
	return h.m.Current().Name()
}

func TestStart(t *testing.T) {
	h := newHarness(t)
	h.add("a", "")
	h.add("b", "a")
	h.add("c", "b")
	require.NoError(t, h.m.Start(h.states["c"]))
	assert.Equal(t, []string{"ENTER(a)", "ENTER(b)", "ENTER(c)", "BEGIN(c)"}, h.trace.reserved)
	assert.Equal(t, "c", h.current())
	assert.True(t, h.m.Started())
}

func TestSiblingTransition(t *testing.T) {
	h := newHarness(t)
	h.add("a", "")
	h.add("b", "a")
	h.add("c", "a")
	h.transition("b", evGo, "c")
	h.start("b")

	assert.True(t, h.dispatch(evGo))
	assert.Equal(t, []string{"EXIT(b)", "ENTER(c)", "BEGIN(c)"}, h.trace.reserved)
	assert.Equal(t, "c", h.current())
}

func TestAncestorInitiatedTransitionToDescendant(t *testing.T) {
	h := newHarness(t)
	h.add("a", "")
	h.add("b", "a")
	h.add("c", "b")
	h.add("d", "a")
	h.transition("a", evGo, "d")
	h.start("c")

	assert.True(t, h.dispatch(evGo))
	assert.Equal(t, []string{"EXIT(c)", "EXIT(b)", "ENTER(d)", "BEGIN(d)"}, h.trace.reserved)
	assert.Equal(t, []string{"EVT.0(c)", "EVT.0(b)", "EVT.0(a)"}, h.trace.user)
	assert.Equal(t, "d", h.current())
}

func TestInitialTransitionChaining(t *testing.T) {
	h := newHarness(t)
	h.add("x", "")
	h.add("t", "")
	h.add("u", "t")
	h.add("v", "u")
	h.initial["t"] = "u"
	h.initial["u"] = "v"
	h.transition("x", evGo, "t")
	h.start("x")

	assert.True(t, h.dispatch(evGo))
	assert.Equal(t, []string{
		"EXIT(x)", "ENTER(t)", "BEGIN(t)", "ENTER(u)", "BEGIN(u)", "ENTER(v)", "BEGIN(v)",
	}, h.trace.reserved)
	assert.Equal(t, "v", h.current())
}

func TestInitialTransitionSkippingLevels(t *testing.T) {
	h := newHarness(t)
	h.add("t", "")
	h.add("u", "t")
	h.add("v", "u")
	h.initial["t"] = "v"

	require.NoError(t, h.m.Start(h.states["t"]))
	assert.Equal(t, []string{"ENTER(t)", "BEGIN(t)", "ENTER(u)", "ENTER(v)", "BEGIN(v)"}, h.trace.reserved)
	assert.Equal(t, "v", h.current())
}

func TestSelfTransition(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		h := newHarness(t)
		h.add("a", "")
		h.add("s", "a")
		h.transition("s", evGo, "s")
		h.start("s")

		assert.True(t, h.dispatch(evGo))
		assert.Equal(t, []string{"EXIT(s)", "ENTER(s)", "BEGIN(s)"}, h.trace.reserved)
		assert.Equal(t, "s", h.current())
	})
	t.Run("top-level", func(t *testing.T) {
		h := newHarness(t)
		h.add("s", "")
		h.transition("s", evGo, "s")
		h.start("s")

		assert.True(t, h.dispatch(evGo))
		assert.Equal(t, []string{"EXIT(s)", "ENTER(s)", "BEGIN(s)"}, h.trace.reserved)
	})
	t.Run("from ancestor", func(t *testing.T) {
		h := newHarness(t)
		h.add("a", "")
		h.add("s", "a")
		h.transition("a", evGo, "a")
		h.start("s")

		assert.True(t, h.dispatch(evGo))
		assert.Equal(t, []string{"EXIT(s)", "EXIT(a)", "ENTER(a)", "BEGIN(a)"}, h.trace.reserved)
		assert.Equal(t, "a", h.current())
	})
}

func TestTransitionToAncestor(t *testing.T) {
	h := newHarness(t)
	h.add("a", "")
	h.add("b", "a")
	h.add("c", "b")
	h.transition("c", evGo, "a")
	h.start("c")

	assert.True(t, h.dispatch(evGo))
	assert.Equal(t, []string{"EXIT(c)", "EXIT(b)", "BEGIN(a)"}, h.trace.reserved)
	assert.Equal(t, "a", h.current())
}

func TestTransitionAcrossCommonAncestor(t *testing.T) {
	h := newHarness(t)
	h.add("s", "")
	h.add("s1", "s")
	h.add("s11", "s1")
	h.add("s2", "s")
	h.add("s21", "s2")
	h.transition("s11", evGo, "s21")
	h.start("s11")

	assert.True(t, h.dispatch(evGo))
	assert.Equal(t, []string{"EXIT(s11)", "EXIT(s1)", "ENTER(s2)", "ENTER(s21)", "BEGIN(s21)"}, h.trace.reserved)
	assert.Equal(t, "s21", h.current())
}

func TestDisjointSubtreeTransition(t *testing.T) {
	h := newHarness(t)
	h.add("p", "")
	h.add("p1", "p")
	h.add("q", "")
	h.add("q1", "q")
	h.transition("p1", evGo, "q1")
	h.start("p1")

	assert.True(t, h.dispatch(evGo))
	assert.Equal(t, []string{"EXIT(p1)", "EXIT(p)", "ENTER(q)", "ENTER(q1)", "BEGIN(q1)"}, h.trace.reserved)
	assert.Equal(t, "q1", h.current())
}

func TestEventBubbling(t *testing.T) {
	h := newHarness(t)
	h.add("a", "")
	h.add("b", "a")
	h.add("c", "b")
	h.transition("b", evStay, "")
	h.start("c")

	assert.True(t, h.dispatch(evStay))
	assert.Equal(t, []string{"EVT.1(c)", "EVT.1(b)"}, h.trace.user)
	assert.Empty(t, h.trace.reserved)
	assert.Equal(t, "c", h.current())

	h.trace.reset()
	assert.False(t, h.dispatch(evNoop))
	assert.Equal(t, []string{"EVT.2(c)", "EVT.2(b)", "EVT.2(a)"}, h.trace.user)
	assert.Equal(t, "c", h.current())
}

func TestEventData(t *testing.T) {
	var got any
	m := fsm.New("Data")
	s := fsm.NewState(func(s *fsm.State, m *fsm.Machine, e fsm.Event) fsm.Result {
		if e.ID == evGo {
			got = e.Data
			return fsm.Handled
		}
		return fsm.Unhandled
	}, "s")
	require.NoError(t, m.InsertState(s, nil))
	require.NoError(t, m.Start(s))

	handled, err := m.DispatchEvent(fsm.NewEvent(evGo, 42))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 42, got)

	handled, err = m.DispatchEvent(fsm.NewEvent(evGo).WithData("gust"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "gust", got)
}

// TestLocalTransitionInvariant checks every transition of a small tree: the
// states on and above the least common ancestor are never exited or entered,
// exits run leaf to root, entries run root to leaf and BEGIN comes last.
func TestLocalTransitionInvariant(t *testing.T) {
	tree := [][2]string{
		{"a", ""}, {"a1", "a"}, {"a11", "a1"}, {"a12", "a1"}, {"a2", "a"},
		{"b", ""}, {"b1", "b"}, {"b11", "b1"},
	}
	for _, source := range tree {
		for _, target := range tree {
			name := fmt.Sprintf("%s->%s", source[0], target[0])
			t.Run(name, func(t *testing.T) {
				h := newHarness(t)
				for _, node := range tree {
					h.add(node[0], node[1])
				}
				h.transition(source[0], evGo, target[0])
				h.start(source[0])
				require.True(t, h.dispatch(evGo))

				s, tg := h.states[source[0]], h.states[target[0]]
				boundary := fsm.LCA(s, tg)
				var expected []string
				for x := s; x != boundary; x = x.Parent() {
					expected = append(expected, "EXIT("+x.Name()+")")
				}
				var entries []string
				for x := tg; x != boundary; x = x.Parent() {
					entries = append([]string{"ENTER(" + x.Name() + ")"}, entries...)
				}
				expected = append(expected, entries...)
				expected = append(expected, "BEGIN("+tg.Name()+")")

				assert.Equal(t, expected, h.trace.reserved)
				assert.Equal(t, tg, h.m.Current())
				for x := boundary; x != nil; x = x.Parent() {
					assert.NotContains(t, h.trace.reserved, "EXIT("+x.Name()+")")
					assert.NotContains(t, h.trace.reserved, "ENTER("+x.Name()+")")
				}
			})
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() []string {
		h := newHarness(t)
		h.add("s", "")
		h.add("s1", "s")
		h.add("s11", "s1")
		h.add("s2", "s")
		h.add("s21", "s2")
		h.initial["s"] = "s1"
		h.initial["s1"] = "s11"
		h.initial["s2"] = "s21"
		h.transition("s", evGo, "s2")
		h.transition("s21", evStay, "s11")
		require.NoError(t, h.m.Start(h.states["s"]))
		for _, id := range []fsm.EventID{evGo, evNoop, evStay, evGo, evStay} {
			h.dispatch(id)
		}
		return append(h.trace.reserved, h.trace.user...)
	}
	assert.Equal(t, run(), run())
}

func TestBehaviorState(t *testing.T) {
	m := fsm.New("Behavior")
	var busy fsm.State
	busy.InitBehavior("busy", behaviorFunc(func(m *fsm.Machine, e fsm.Event) fsm.Result {
		return fsm.Unhandled
	}))
	idle := fsm.NewBehaviorState("idle", behaviorFunc(func(m *fsm.Machine, e fsm.Event) fsm.Result {
		if e.ID == evGo {
			require.NoError(t, m.BeginTransition(&busy))
			return fsm.Handled
		}
		return fsm.Unhandled
	}))
	require.NoError(t, m.InsertState(idle, nil))
	require.NoError(t, m.InsertState(&busy, nil))
	require.NoError(t, m.Start(idle))

	handled, err := m.DispatchEvent(fsm.NewEvent(evGo))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Same(t, &busy, m.Current())

	handled, err = m.DispatchEvent(fsm.NewEvent(evGo))
	require.NoError(t, err)
	assert.False(t, handled)
}

type behaviorFunc func(m *fsm.Machine, e fsm.Event) fsm.Result

func (f behaviorFunc) OnEvent(m *fsm.Machine, e fsm.Event) fsm.Result { return f(m, e) }

func TestHooks(t *testing.T) {
	var trace []string
	hooks := fsm.Hooks{
		OnEnter: func(m *fsm.Machine, s *fsm.State) { trace = append(trace, "enter "+s.Name()) },
		OnExit:  func(m *fsm.Machine, s *fsm.State) { trace = append(trace, "exit "+s.Name()) },
		OnBegin: func(m *fsm.Machine, s *fsm.State) { trace = append(trace, "begin "+s.Name()) },
		OnEvent: func(m *fsm.Machine, s *fsm.State, e fsm.Event, r fsm.Result) {
			trace = append(trace, fmt.Sprintf("event %s %s %s", e, s.Name(), r))
		},
		OnTransition: func(m *fsm.Machine, source, target *fsm.State) {
			trace = append(trace, "transition "+source.Name()+" "+target.Name())
		},
		OnSettle: func(m *fsm.Machine, current *fsm.State) { trace = append(trace, "settle "+current.Name()) },
		OnDispatch: func(m *fsm.Machine, e fsm.Event, handled bool) {
			trace = append(trace, fmt.Sprintf("dispatch %s %t", e, handled))
		},
	}
	var chained int
	h := newHarness(t, fsm.Config{Hooks: fsm.Chain(hooks, fsm.Hooks{
		OnDispatch: func(m *fsm.Machine, e fsm.Event, handled bool) { chained++ },
	})})
	h.add("a", "")
	h.add("b", "a")
	h.add("c", "a")
	h.initial["a"] = "b"
	h.transition("b", evGo, "c")
	require.NoError(t, h.m.Start(h.states["a"]))
	_ = h.dispatch(evGo)

	assert.Equal(t, []string{
		"enter a", "begin a", "transition a b", "enter b", "begin b", "settle b",
		"transition b c", "exit b", "event 0 b <HANDLED>",
		"enter c", "begin c", "settle c", "dispatch 0 true",
	}, trace)
	assert.Equal(t, 1, chained)
}
