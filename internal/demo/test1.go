package demo

import "github.com/openwebos/fsm"

// Test1 events.
const (
	Test1Pressure fsm.EventID = fsm.FirstUserEvent + 1 + iota
	Test1Wind
)

// Test1 is the reference machine
//
//	s
//	├── s1
//	│   └── s11
//	│       ├── s111
//	│       └── s112
//	└── s2
//	    ├── s21
//	    └── s22
//
// s begins in s1 and s2 begins in s21. Pressure takes s to s2 and wind
// takes s21 to s111.
type Test1 struct {
	fsm.Machine

	S, S1, S11, S111, S112 fsm.State
	S2, S21, S22           fsm.State
}

// NewTest1 builds the Test1 machine with all states inserted.
func NewTest1(maybeConfig ...fsm.Config) (*Test1, error) {
	t := &Test1{}
	t.Init("Test1", maybeConfig...)

	t.S.Init(t.onS, "s")
	t.S1.Init(ignore, "s1")
	t.S11.Init(ignore, "s11")
	t.S111.Init(ignore, "s111")
	t.S112.Init(ignore, "s112")
	t.S2.Init(t.onS2, "s2")
	t.S21.Init(t.onS21, "s21")
	t.S22.Init(ignore, "s22")

	for _, insert := range []struct{ state, parent *fsm.State }{
		{&t.S, nil},
		{&t.S1, &t.S},
		{&t.S11, &t.S1},
		{&t.S111, &t.S11},
		{&t.S112, &t.S11},
		{&t.S2, &t.S},
		{&t.S21, &t.S2},
		{&t.S22, &t.S2},
	} {
		if err := t.InsertState(insert.state, insert.parent); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Test1) onS(s *fsm.State, m *fsm.Machine, e fsm.Event) fsm.Result {
	switch e.ID {
	case fsm.EventBegin:
		m.BeginTransition(&t.S1)
		return fsm.Handled
	case Test1Pressure:
		m.BeginTransition(&t.S2)
		return fsm.Handled
	}
	return fsm.Unhandled
}

func (t *Test1) onS2(s *fsm.State, m *fsm.Machine, e fsm.Event) fsm.Result {
	if e.ID == fsm.EventBegin {
		m.BeginTransition(&t.S21)
		return fsm.Handled
	}
	return fsm.Unhandled
}

func (t *Test1) onS21(s *fsm.State, m *fsm.Machine, e fsm.Event) fsm.Result {
	if e.ID == Test1Wind {
		m.BeginTransition(&t.S111)
		return fsm.Handled
	}
	return fsm.Unhandled
}

func ignore(*fsm.State, *fsm.Machine, fsm.Event) fsm.Result {
	return fsm.Unhandled
}
