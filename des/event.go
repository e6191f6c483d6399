package des

import "fmt"

// state is an Event's position in the Pending -> Triggered -> Processed
// lifecycle. It never moves backwards.
type state int

const (
	statePending state = iota
	stateTriggered
	stateProcessed
)

// callback is a handler fanned out when an Event is processed. Returning a
// non-nil error aborts the remaining fan-out for that Event and propagates
// out of Environment.Step.
type callback func(Event) error

type callbackEntry struct {
	token uint64
	fn    callback
}

// Event is the unit of scheduling and observation. BaseEvent is its sole
// implementation; ConditionEvent, Process, GetResource and PutResource all
// embed a *BaseEvent and are therefore Events themselves, adding their own
// fields on top. The interface is intentionally sealed (its methods are
// unexported): callers consume Events produced by this package's
// constructors rather than implementing their own.
type Event interface {
	// ID returns the Event's identifier, assigned by the owning
	// Environment's IDGenerator.
	ID() string

	// Env returns the Event's owning Environment.
	Env() *Environment

	// Triggered reports whether the Event has left the Pending state.
	Triggered() bool

	// Processed reports whether the Event's callbacks have been fanned and
	// released.
	Processed() bool

	// Ok reports the Event's outcome. It panics if the Event is still
	// Pending: the outcome is only meaningful once Triggered.
	Ok() bool

	// Value returns the Event's outcome payload: the success value when Ok
	// is true, or the failure value (normally an error) when Ok is false.
	// It panics if the Event is still Pending.
	Value() interface{}

	// Err returns the Event's failure value as an error, or nil if the
	// Event succeeded or is still Pending.
	Err() error

	// Defused reports whether a failed Event has been marked to suppress
	// Environment.Step's re-raise.
	Defused() bool

	// SetDefused sets the defused flag.
	SetDefused(bool)

	// Succeed transitions a Pending Event to Triggered(ok=true, value) and
	// schedules it. It fails with AlreadyTriggered if the Event is not
	// Pending.
	Succeed(value interface{}) (Event, error)

	// Fail transitions a Pending Event to Triggered(ok=false, err) and
	// schedules it. It fails with AlreadyTriggered if the Event is not
	// Pending.
	Fail(err error) (Event, error)

	// Trigger copies the outcome of a Triggered source Event onto this
	// Pending Event and schedules it.
	Trigger(source Event) (Event, error)

	// And builds a ConditionEvent that succeeds once both this Event and
	// other have triggered successfully.
	And(other Event) (*ConditionEvent, error)

	// Or builds a ConditionEvent that succeeds once either this Event or
	// other has triggered successfully.
	Or(other Event) (*ConditionEvent, error)

	base() *BaseEvent
	addCallback(cb callback) uint64
	removeCallback(token uint64) bool
}

// BaseEvent is the canonical Event implementation. Every other Event type
// in this package embeds a *BaseEvent.
type BaseEvent struct {
	id    string
	env   *Environment
	state state

	ok    bool
	value interface{}

	callbacks *fifo[*callbackEntry]
	nextToken uint64

	scheduled bool
	defused   bool
}

// NewEvent creates a Pending Event bound to env.
func (env *Environment) NewEvent() *BaseEvent {
	return &BaseEvent{
		id:        env.idGen.Generate(),
		env:       env,
		callbacks: newFIFO[*callbackEntry](),
	}
}

func (e *BaseEvent) base() *BaseEvent { return e }

// ID returns the Event's identifier.
func (e *BaseEvent) ID() string { return e.id }

// Env returns the owning Environment.
func (e *BaseEvent) Env() *Environment { return e.env }

// Triggered reports whether the Event has left the Pending state.
func (e *BaseEvent) Triggered() bool { return e.state != statePending }

// Processed reports whether the Event's callbacks have been fanned.
func (e *BaseEvent) Processed() bool { return e.state == stateProcessed }

// Ok reports the Event's outcome; panics if still Pending.
func (e *BaseEvent) Ok() bool {
	if e.state == statePending {
		panic(fmt.Sprintf("des: Ok() called on Pending event %s", e.id))
	}
	return e.ok
}

// Value returns the Event's outcome payload; panics if still Pending.
func (e *BaseEvent) Value() interface{} {
	if e.state == statePending {
		panic(fmt.Sprintf("des: Value() called on Pending event %s", e.id))
	}
	return e.value
}

// Err returns the Event's failure value as an error, or nil if the Event
// succeeded or is still Pending.
func (e *BaseEvent) Err() error {
	if e.state == statePending || e.ok {
		return nil
	}
	if err, ok := e.value.(error); ok {
		return err
	}
	return fmt.Errorf("%v", e.value)
}

// Defused reports whether the failed-Event re-raise has been suppressed.
func (e *BaseEvent) Defused() bool { return e.defused }

// SetDefused sets the defused flag.
func (e *BaseEvent) SetDefused(v bool) { e.defused = v }

// Succeed implements Event.Succeed.
func (e *BaseEvent) Succeed(value interface{}) (Event, error) {
	if e.state != statePending {
		return e, KindError(AlreadyTriggered)
	}
	e.triggerAt(true, value, Normal, 0)
	return e, nil
}

// Fail implements Event.Fail.
func (e *BaseEvent) Fail(err error) (Event, error) {
	if e.state != statePending {
		return e, KindError(AlreadyTriggered)
	}
	if err == nil {
		panic("des: Fail() requires a non-nil error")
	}
	e.triggerAt(false, err, Normal, 0)
	return e, nil
}

// Trigger implements Event.Trigger.
func (e *BaseEvent) Trigger(source Event) (Event, error) {
	if e.state != statePending {
		return e, KindError(AlreadyTriggered)
	}
	if !source.Triggered() {
		return e, NewError(AlreadyTriggered, "Trigger source is not yet Triggered", nil)
	}
	e.triggerAt(source.Ok(), source.Value(), Normal, 0)
	return e, nil
}

// triggerAt sets the Event's outcome directly and schedules it at the given
// priority/delay, bypassing Succeed/Fail's hardcoded Normal/0. Used
// internally by Timeout, the Process bootstrap event and the interrupt wake
// event, each of which needs a specific priority or a future delay that the
// public Succeed/Fail never expose, and by ConditionEvent to settle itself.
func (e *BaseEvent) triggerAt(ok bool, value interface{}, priority Priority, delay Time) {
	e.state = stateTriggered
	e.ok = ok
	e.value = value
	_ = e.env.Schedule(e, priority, delay)
}

// And implements Event.And.
func (e *BaseEvent) And(other Event) (*ConditionEvent, error) {
	return newCondition(e.env, all, []Event{e, other})
}

// Or implements Event.Or.
func (e *BaseEvent) Or(other Event) (*ConditionEvent, error) {
	return newCondition(e.env, anyPredicate, []Event{e, other})
}

// addCallback appends cb to the callback list and returns a token that can
// later be passed to removeCallback. Grounded on sim/buffer.go's FIFO
// semantics; the token sidesteps identity-based removal, which breaks for
// closures and other non-comparable callback values.
func (e *BaseEvent) addCallback(cb callback) uint64 {
	e.nextToken++
	token := e.nextToken
	e.callbacks.pushBack(&callbackEntry{token: token, fn: cb})
	return token
}

// removeCallback splices out the callback registered under token, if still
// present. It is a no-op if the Event has already been processed (its
// callback list was released) or if the token was already removed.
func (e *BaseEvent) removeCallback(token uint64) bool {
	if e.callbacks == nil {
		return false
	}
	return e.callbacks.removeWhere(func(entry *callbackEntry) bool {
		return entry.token == token
	})
}
