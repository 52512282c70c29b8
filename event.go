package fsm

import "strconv"

// EventID identifies an event. Negative ids are reserved by the engine.
type EventID int

// Reserved events. They are delivered only to the single state being
// entered, exited or begun and never propagate to ancestors.
const (
	// EventEnter is delivered to each state being entered, outermost first.
	EventEnter EventID = -1
	// EventExit is delivered to each state being exited, innermost first.
	EventExit EventID = -2
	// EventBegin is delivered to the target of a transition after all
	// entries. Its handler may request an initial transition to a proper
	// descendant.
	EventBegin EventID = -3
	// FirstUserEvent is the lowest id available to user events.
	FirstUserEvent EventID = 0
)

// Event is the unit of dispatch. The engine routes Data but never reads it.
type Event struct {
	ID   EventID
	Data any
}

var (
	enterEvent = Event{ID: EventEnter}
	exitEvent  = Event{ID: EventExit}
	beginEvent = Event{ID: EventBegin}
)

// NewEvent returns a user event with the given id and optional payload.
func NewEvent(id EventID, maybeData ...any) Event {
	event := Event{ID: id}
	if len(maybeData) > 0 {
		event.Data = maybeData[0]
	}
	return event
}

// WithData returns a copy of the event carrying data.
func (e Event) WithData(data any) Event {
	return Event{ID: e.ID, Data: data}
}

// Reserved reports whether the event is one of ENTER, EXIT or BEGIN.
func (e Event) Reserved() bool {
	return e.ID < FirstUserEvent
}

func (e Event) String() string {
	return e.ID.String()
}

func (id EventID) String() string {
	switch id {
	case EventEnter:
		return "ENTER"
	case EventExit:
		return "EXIT"
	case EventBegin:
		return "BEGIN"
	}
	return strconv.Itoa(int(id))
}

// Result is a handler's verdict on an event.
type Result uint8

const (
	// Unhandled lets a user event bubble to the parent state.
	Unhandled Result = iota
	// Handled consumes the event. A handler that requested a transition must
	// return Handled.
	Handled
)

func (r Result) String() string {
	if r == Handled {
		return "<HANDLED>"
	}
	return "<NOT HANDLED>"
}
