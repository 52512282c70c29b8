package fsm

import (
	"errors"
	"fmt"
)

// Error variables for checked failures.
// These sentinel errors can be checked using errors.Is.
var (
	// ErrAlreadyStarted is returned by Start on a second call and by
	// InsertState once the machine has started.
	ErrAlreadyStarted = errors.New("fsm: machine already started")
	// ErrViolation is wrapped by every ViolationError.
	ErrViolation = errors.New("fsm: contract violation")
)

// ViolationKind classifies a contract violation.
type ViolationKind uint8

const (
	// NullTarget is a dispatch while there is no current state: before Start,
	// or from the scope of an ENTER, EXIT or BEGIN handler.
	NullTarget ViolationKind = iota + 1
	// RunToCompletion is a dispatch from the scope of another dispatch.
	RunToCompletion
	// ReservedEvent is a dispatch of ENTER, EXIT or BEGIN by the caller.
	ReservedEvent
	// DeclinedTransition is a handler that requested a transition and then
	// returned Unhandled.
	DeclinedTransition
	// DoubleTransition is a second transition request in one activation.
	DoubleTransition
	// TransitionScope is a transition request outside a user event or BEGIN
	// handler.
	TransitionScope
	// UninitializedState is a nil state, a state without a handler, or a
	// state that was never inserted.
	UninitializedState
	// DuplicateInsert is a state inserted more than once.
	DuplicateInsert
	// ForeignState is a state that belongs to another machine.
	ForeignState
	// NestingDepth is a state nested deeper than MaxDepth.
	NestingDepth
	// InitialTarget is an initial transition whose target is not a proper
	// descendant of the state that received BEGIN.
	InitialTarget
	// NestedStart is a Start from the scope of a handler.
	NestedStart
	// InterruptedTransition is a panic that escaped a handler while a
	// transition was in progress, leaving no consistent active
	// configuration.
	InterruptedTransition
)

var violationNames = [...]string{
	NullTarget:            "NULL-Target-Dispatch Violation",
	RunToCompletion:       "Run-to-Completion Violation",
	ReservedEvent:         "Reserved-Event Violation",
	DeclinedTransition:    "Declined-Transition Violation",
	DoubleTransition:      "Double-Transition Violation",
	TransitionScope:       "Transition-Scope Violation",
	UninitializedState:    "Uninitialized-State Violation",
	DuplicateInsert:       "Duplicate-Insert Violation",
	ForeignState:          "Foreign-State Violation",
	NestingDepth:          "Nesting-Depth Violation",
	InitialTarget:         "Initial-Target Violation",
	NestedStart:           "Nested-Start Violation",
	InterruptedTransition: "Interrupted-Transition Violation",
}

func (k ViolationKind) String() string {
	if int(k) < len(violationNames) && violationNames[k] != "" {
		return violationNames[k]
	}
	return fmt.Sprintf("Violation(%d)", uint8(k))
}

// ViolationError describes a programmer error detected by the engine. The
// engine never continues past one: it panics with the error, or returns it
// from the outermost call when Config.CatchViolations is set. Either way the
// machine is faulted and rejects further calls.
type ViolationError struct {
	Kind    ViolationKind
	Machine string
	// State names the state involved, if any.
	State   string
	Message string
}

func (e *ViolationError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("fsm: %s: %s: %s (state %s)", e.Machine, e.Kind, e.Message, e.State)
	}
	return fmt.Sprintf("fsm: %s: %s: %s", e.Machine, e.Kind, e.Message)
}

// Unwrap allows errors.Is(err, ErrViolation).
func (e *ViolationError) Unwrap() error { return ErrViolation }
