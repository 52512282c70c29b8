package demo

import "github.com/openwebos/fsm"

// Weather events.
const (
	WeatherWind fsm.EventID = fsm.FirstUserEvent + iota
	WeatherRain
)

// Wind is the payload of WeatherWind.
type Wind struct {
	MPH float64 `mapstructure:"mph"`
}

// Rain is the payload of WeatherRain.
type Rain struct {
	Inches float64 `mapstructure:"inches"`
}

// Thresholds above which the walker takes shelter.
const (
	ShelterWindMPH    = 15
	ShelterRainInches = 2
)

// Weather walks outdoors until the wind or the rain gets too strong, then
// takes shelter. Its states are Behavior values.
type Weather struct {
	fsm.Machine

	Outdoors fsm.State
	Shelter  fsm.State
}

type outdoors struct {
	w *Weather
}

func (o outdoors) OnEvent(m *fsm.Machine, e fsm.Event) fsm.Result {
	switch e.ID {
	case WeatherWind:
		if wind, ok := e.Data.(Wind); ok && wind.MPH > ShelterWindMPH {
			m.BeginTransition(&o.w.Shelter)
		}
		return fsm.Handled
	case WeatherRain:
		if rain, ok := e.Data.(Rain); ok && rain.Inches > ShelterRainInches {
			m.BeginTransition(&o.w.Shelter)
		}
		return fsm.Handled
	}
	return fsm.Unhandled
}

type shelter struct{}

func (shelter) OnEvent(*fsm.Machine, fsm.Event) fsm.Result {
	return fsm.Unhandled
}

// NewWeather builds the Weather machine with both states inserted.
func NewWeather(maybeConfig ...fsm.Config) (*Weather, error) {
	w := &Weather{}
	w.Init("MyWorldFsm", maybeConfig...)
	w.Outdoors.InitBehavior("outdoors", outdoors{w})
	w.Shelter.InitBehavior("shelter", shelter{})
	if err := w.InsertState(&w.Outdoors, nil); err != nil {
		return nil, err
	}
	if err := w.InsertState(&w.Shelter, nil); err != nil {
		return nil, err
	}
	return w, nil
}
