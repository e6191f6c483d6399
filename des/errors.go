package des

import "fmt"

// Kind identifies one of the error taxonomy members defined in the kernel's
// error-handling design. Kind values are compared with ==, never by string
// matching.
type Kind int

// The error kinds a kernel operation can synchronously fail with, or that
// can flow through the Event graph as a failure value.
const (
	// EmptyQueue is returned by Environment.Step when there is nothing left
	// to schedule.
	EmptyQueue Kind = iota

	// Interrupted wraps the cause passed to Process.Interrupt. It is thrown
	// into the interrupted coroutine at its current suspension point.
	Interrupted

	// StopSimulation is the failure value of the sentinel event installed by
	// Environment.Run(until). Run catches it and returns nil.
	StopSimulation

	// InvalidYield marks a Process failure caused by yielding a value that
	// is not an Event.
	InvalidYield

	// MixedEnvironment is returned when a ConditionEvent is constructed over
	// Events that do not share a single Environment.
	MixedEnvironment

	// AlreadyTriggered is returned by Succeed/Fail/Trigger on an Event that
	// is no longer Pending.
	AlreadyTriggered

	// NegativeDelay is returned when a caller schedules an Event, or builds
	// a Timeout, with delay < 0.
	NegativeDelay

	// CapacityViolation is returned by Resource requests or releases whose
	// amount is not strictly positive.
	CapacityViolation
)

func (k Kind) String() string {
	switch k {
	case EmptyQueue:
		return "EmptyQueue"
	case Interrupted:
		return "Interrupted"
	case StopSimulation:
		return "StopSimulation"
	case InvalidYield:
		return "InvalidYield"
	case MixedEnvironment:
		return "MixedEnvironment"
	case AlreadyTriggered:
		return "AlreadyTriggered"
	case NegativeDelay:
		return "NegativeDelay"
	case CapacityViolation:
		return "CapacityViolation"
	default:
		return "Unknown"
	}
}

// Error is the structured error value the kernel fails Events with and
// returns from its own synchronous operations. Cause carries a
// caller-supplied payload: for Interrupted it is the interrupt's cause
// argument, for InvalidYield it is the offending yielded value.
type Error struct {
	Kind  Kind
	Msg   string
	Cause interface{}
}

// NewError builds a kernel Error of the given kind.
func NewError(kind Kind, msg string, cause interface{}) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is allows errors.Is(err, des.KindError(des.EmptyQueue)) style comparisons:
// two *Errors match when their Kinds are equal; see KindError.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// KindError returns a zero-value *Error of the given kind, suitable as an
// errors.Is target: errors.Is(err, des.KindError(des.EmptyQueue)).
func KindError(kind Kind) *Error {
	return &Error{Kind: kind}
}

// IsKind reports whether err is a *des.Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
