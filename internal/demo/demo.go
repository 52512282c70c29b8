// Package demo holds the sample machines run by the fsmdemo command.
package demo

import (
	"fmt"
	"sort"

	"github.com/openwebos/fsm"
)

// EventType describes a named event of a scenario.
type EventType struct {
	ID fsm.EventID
	// Decode builds the payload from script fields. Nil for events without
	// payload.
	Decode func(fields map[string]any) (any, error)
}

// Scenario is a sample machine with a scripted run.
type Scenario struct {
	Name        string
	Description string
	// Build returns a machine with its states inserted and the state to
	// start in.
	Build func(config fsm.Config) (*fsm.Machine, *fsm.State, error)
	// Script is the default list of events dispatched after Start.
	Script []fsm.Event
	// Events maps event names to their types.
	Events map[string]EventType
}

var scenarios = map[string]Scenario{
	"test1": {
		Name:        "test1",
		Description: "nested states with initial transitions; pressure then wind",
		Build: func(config fsm.Config) (*fsm.Machine, *fsm.State, error) {
			t, err := NewTest1(config)
			if err != nil {
				return nil, nil, err
			}
			return &t.Machine, &t.S, nil
		},
		Script: []fsm.Event{
			fsm.NewEvent(Test1Pressure),
			fsm.NewEvent(Test1Wind),
		},
		Events: map[string]EventType{
			"pressure": {ID: Test1Pressure},
			"wind":     {ID: Test1Wind},
		},
	},
	"weather": {
		Name:        "weather",
		Description: "behavior states with payloads; a light breeze then a 100 mph wind",
		Build: func(config fsm.Config) (*fsm.Machine, *fsm.State, error) {
			w, err := NewWeather(config)
			if err != nil {
				return nil, nil, err
			}
			return &w.Machine, &w.Outdoors, nil
		},
		Script: []fsm.Event{
			fsm.NewEvent(WeatherWind, Wind{MPH: 5}),
			fsm.NewEvent(WeatherWind, Wind{MPH: 100}),
		},
		Events: map[string]EventType{
			"wind": {ID: WeatherWind, Decode: decodePayload[Wind]},
			"rain": {ID: WeatherRain, Decode: decodePayload[Rain]},
		},
	},
}

// Scenarios returns the available scenarios sorted by name.
func Scenarios() []Scenario {
	list := make([]Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Lookup returns the scenario called name.
func Lookup(name string) (Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("scenario not found: %s", name)
	}
	return s, nil
}

// EventName returns the name of the event id, or "EVT.<id>".
func (s Scenario) EventName(id fsm.EventID) string {
	for name, et := range s.Events {
		if et.ID == id {
			return name
		}
	}
	return "EVT." + id.String()
}

// Event returns the event called name carrying the payload decoded from
// fields.
func (s Scenario) Event(name string, fields map[string]any) (fsm.Event, error) {
	et, ok := s.Events[name]
	if !ok {
		return fsm.Event{}, fmt.Errorf("%s: unknown event %q", s.Name, name)
	}
	event := fsm.NewEvent(et.ID)
	if et.Decode != nil {
		data, err := et.Decode(fields)
		if err != nil {
			return fsm.Event{}, fmt.Errorf("%s: event %q: %w", s.Name, name, err)
		}
		event = event.WithData(data)
	}
	return event, nil
}

// Step is one dispatched event of a run.
type Step struct {
	Event   fsm.Event
	Handled bool
}

// Run builds the machine, starts it and dispatches the script, or the
// default script when none is given. It returns the machine and the steps
// dispatched so far, also on error.
func (s Scenario) Run(config fsm.Config, maybeScript ...[]fsm.Event) (*fsm.Machine, []Step, error) {
	script := s.Script
	if len(maybeScript) > 0 && maybeScript[0] != nil {
		script = maybeScript[0]
	}
	m, initial, err := s.Build(config)
	if err != nil {
		return nil, nil, err
	}
	if err := m.Start(initial); err != nil {
		return m, nil, fmt.Errorf("start %s: %w", s.Name, err)
	}
	steps := make([]Step, 0, len(script))
	for _, event := range script {
		handled, err := m.DispatchEvent(event)
		if err != nil {
			return m, steps, fmt.Errorf("dispatch %s: %w", s.EventName(event.ID), err)
		}
		steps = append(steps, Step{Event: event, Handled: handled})
	}
	return m, steps, nil
}
