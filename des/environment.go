package des

import (
	"fmt"
)

// Environment owns the virtual clock and the priority queue, and drives the
// step loop. Generalized from SerialEngine (sim/serialengine.go): same
// single queue, "advance now to the popped item's time, fan its handler,
// move on" discipline, but the unit of work here is an Event's callback
// list rather than a single Handler.Handle call, and the clock is a plain
// real number rather than VTimeInSec tied to a Freq-based cycle model (this
// kernel has no notion of a clock frequency).
type Environment struct {
	ObserverRegistry

	now    Time
	queue  *priorityQueue
	idGen  IDGenerator
	active *Process
}

// EnvironmentOption configures a new Environment. Functional-options style,
// grounded on the constructor-argument pattern of sim.NewComponentBase /
// sim.NewBuffer, generalized because this constructor has more than one
// optional knob.
type EnvironmentOption func(*Environment)

// WithInitialTime sets the Environment's starting virtual time (default 0).
func WithInitialTime(t Time) EnvironmentOption {
	return func(e *Environment) { e.now = t }
}

// WithIDGenerator overrides the default SequentialIDGenerator.
func WithIDGenerator(g IDGenerator) EnvironmentOption {
	return func(e *Environment) { e.idGen = g }
}

// NewEnvironment creates an Environment ready to schedule and run Events.
func NewEnvironment(opts ...EnvironmentOption) *Environment {
	env := &Environment{
		queue: newPriorityQueue(),
		idGen: NewSequentialIDGenerator(),
	}

	for _, opt := range opts {
		opt(env)
	}

	return env
}

// Now returns the Environment's current virtual time.
func (env *Environment) Now() Time {
	return env.now
}

// Active returns the Process currently executing, or nil if none is.
func (env *Environment) Active() *Process {
	return env.active
}

// Peek returns the time of the next scheduled item, or +Inf if the queue is
// empty.
func (env *Environment) Peek() Time {
	return env.queue.peekTime()
}

// Len reports how many items remain in the priority queue.
func (env *Environment) Len() int {
	return env.queue.size()
}

// Schedule pushes event onto the priority queue at now+delay with the given
// priority class. delay must be non-negative. Schedule is a no-op if event
// is already scheduled: the "scheduled" guard prevents double-insertion.
func (env *Environment) Schedule(event Event, priority Priority, delay Time) error {
	if delay < 0 {
		return NewError(NegativeDelay, fmt.Sprintf("negative delay %v", delay), nil)
	}

	base := event.base()
	if base.scheduled {
		return nil
	}

	base.scheduled = true
	env.queue.push(env.now+delay, priority, event)
	env.eventScheduled(event, env.now+delay, priority)

	return nil
}

// Step pops the earliest scheduled item, advances now to its time, and fans
// its callbacks. It returns EmptyQueue if the heap is empty, or any error a
// callback raised, or the failure value of an undefused failed Event.
func (env *Environment) Step() error {
	item := env.queue.pop()
	if item == nil {
		return NewError(EmptyQueue, "no scheduled events", nil)
	}

	env.now = item.Time
	env.step(env.now)

	base := item.Event.base()
	base.scheduled = false

	if base.state == stateProcessed {
		return nil
	}

	return env.fan(item.Event, base)
}

// fan invokes every callback registered on event, releases the callback
// list, and re-raises the event's failure if it was not defused. Callbacks
// run in registration order, on the calling goroutine, synchronously; a
// callback that returns an error aborts the remaining fan-out and
// propagates.
func (env *Environment) fan(event Event, base *BaseEvent) error {
	callbacks := base.callbacks
	failed := base.state == stateTriggered && !base.ok
	base.callbacks = nil
	base.state = stateProcessed

	if base.ok {
		env.eventSucceeded(event)
	} else {
		env.eventFailed(event, base.Err())
	}

	var fanErr error

	callbacks.forEach(func(cb *callbackEntry) bool {
		if fanErr != nil {
			return false
		}
		fanErr = cb.fn(event)
		return true
	})

	if fanErr != nil {
		return fanErr
	}

	if failed && !base.defused {
		return base.Err()
	}

	return nil
}

// errStopSimulation is the sentinel failure Run(until) installs and catches.
var errStopSimulation = NewError(StopSimulation, "simulation stopped", nil)

// Run repeatedly steps the Environment until the queue empties or a
// StopSimulation sentinel fires. If until is non-nil it is either a Time
// (push a sentinel Event there) or an Event (attach a StopSimulation
// callback to it). Any other error escapes to the caller.
func (env *Environment) Run(until interface{}) error {
	if until != nil {
		if err := env.installStopSentinel(until); err != nil {
			return err
		}
	}

	for {
		if env.Len() == 0 {
			return nil
		}

		err := env.Step()
		if err == nil {
			continue
		}

		if IsKind(err, StopSimulation) {
			return nil
		}

		if IsKind(err, EmptyQueue) {
			return nil
		}

		return err
	}
}

func (env *Environment) installStopSentinel(until interface{}) error {
	switch u := until.(type) {
	case Time:
		sentinel := env.NewEvent()
		sentinel.addCallback(func(Event) error { return errStopSimulation })
		sentinel.state = stateTriggered
		sentinel.ok = true

		delay := u - env.now
		if delay < 0 {
			delay = 0
		}

		return env.Schedule(sentinel, Normal, delay)
	case int:
		return env.installStopSentinel(Time(u))
	case float64:
		return env.installStopSentinel(Time(u))
	case Event:
		u.addCallback(func(Event) error { return errStopSimulation })
		return nil
	default:
		return NewError(InvalidYield, "Run(until) requires a Time or an Event", until)
	}
}

// Process constructs a Process bound to this Environment from a coroutine
// factory function.
func (env *Environment) Process(fn ProcessFunc) *Process {
	return newProcess(env, fn)
}

// Timeout constructs a Timeout event bound to this Environment.
func (env *Environment) Timeout(delay Time, value interface{}) (*BaseEvent, error) {
	return NewTimeout(env, delay, value)
}
