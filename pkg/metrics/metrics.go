// Package metrics exports machine activity as Prometheus counters.
//
// A Metrics value is wired to one or more machines through the hooks it
// returns:
//
//	reg := prometheus.NewRegistry()
//	mx := metrics.New(reg, "door")
//	m := fsm.New("door", fsm.Config{Hooks: mx.Hooks()})
package metrics

import (
	"github.com/openwebos/fsm"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of the dispatches counter.
const (
	OutcomeHandled   = "handled"
	OutcomeUnhandled = "unhandled"
)

// Metrics holds the collectors fed by machine hooks.
type Metrics struct {
	// Deliveries counts events delivered to states by machine, state and
	// event kind (enter, exit, begin or user).
	Deliveries *prometheus.CounterVec
	// Dispatches counts completed DispatchEvent calls by machine and outcome.
	Dispatches *prometheus.CounterVec
	// Transitions counts transition requests by machine and target state,
	// initial transitions included.
	Transitions *prometheus.CounterVec
	// Violations counts contract violations by machine and kind.
	Violations *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	mx := &Metrics{
		Deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fsm_deliveries_total",
				Help:      "Total number of events delivered to states",
			},
			[]string{"machine", "state", "kind"},
		),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fsm_dispatches_total",
				Help:      "Total number of dispatched user events",
			},
			[]string{"machine", "outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fsm_transitions_total",
				Help:      "Total number of requested transitions",
			},
			[]string{"machine", "target"},
		),
		Violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fsm_violations_total",
				Help:      "Total number of contract violations",
			},
			[]string{"machine", "kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(mx.Deliveries, mx.Dispatches, mx.Transitions, mx.Violations)
	}
	return mx
}

// Hooks returns machine hooks that update the collectors. Combine them with
// other hooks using fsm.Chain.
func (mx *Metrics) Hooks() fsm.Hooks {
	return fsm.Hooks{
		OnEnter: func(m *fsm.Machine, s *fsm.State) {
			mx.Deliveries.WithLabelValues(m.Name(), s.Name(), "enter").Inc()
		},
		OnExit: func(m *fsm.Machine, s *fsm.State) {
			mx.Deliveries.WithLabelValues(m.Name(), s.Name(), "exit").Inc()
		},
		OnBegin: func(m *fsm.Machine, s *fsm.State) {
			mx.Deliveries.WithLabelValues(m.Name(), s.Name(), "begin").Inc()
		},
		OnEvent: func(m *fsm.Machine, s *fsm.State, e fsm.Event, r fsm.Result) {
			mx.Deliveries.WithLabelValues(m.Name(), s.Name(), "user").Inc()
		},
		OnDispatch: func(m *fsm.Machine, e fsm.Event, handled bool) {
			outcome := OutcomeUnhandled
			if handled {
				outcome = OutcomeHandled
			}
			mx.Dispatches.WithLabelValues(m.Name(), outcome).Inc()
		},
		OnTransition: func(m *fsm.Machine, source, target *fsm.State) {
			mx.Transitions.WithLabelValues(m.Name(), target.Name()).Inc()
		},
		OnViolation: func(m *fsm.Machine, v *fsm.ViolationError) {
			mx.Violations.WithLabelValues(m.Name(), v.Kind.String()).Inc()
		},
	}
}
