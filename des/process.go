package des

import (
	"reflect"
	"runtime"
)

// ProcessFunc is a process body. It runs on its own goroutine and
// communicates with the Environment's single stepping goroutine by calling
// ProcessContext.Yield: a goroutine plus an unbuffered channel hand-off
// standing in for a generator/yield coroutine model.
type ProcessFunc func(ctx *ProcessContext) (interface{}, error)

// ProcessContext is the handle a ProcessFunc uses to suspend itself until an
// Event triggers.
type ProcessContext struct {
	p *Process
}

// Yield suspends the calling process until e is processed (its callbacks
// fanned), and returns e's outcome as an explicit (value, err) pair: the
// idiomatic Go substitute for exception-based "the yielded event raised"
// semantics. Note this waits for e to be Processed, not merely
// Triggered: a Timeout's outcome is fixed the instant it is created, but
// virtual time still has to reach its scheduled tick before it is
// Processed, and a process yielding it must actually wait that long. Only
// an Event that was already Processed before this Yield call, its callback
// list already released, resolves inline with no goroutine hand-off. A
// failed e is marked defused: Yield delivering the failure to the process
// counts as handling it, so Environment.Step does not also re-raise it.
func (ctx *ProcessContext) Yield(e Event) (interface{}, error) {
	return ctx.p.yield(e)
}

// resumeMsg is sent env-goroutine -> process-goroutine to deliver the
// outcome of the event a process was suspended on.
type resumeMsg struct {
	value interface{}
	err   error
}

// yieldMsg is sent process-goroutine -> env-goroutine, either reporting the
// next Event the process is waiting on or that it has returned.
type yieldMsg struct {
	event Event
	done  bool
	value interface{}
	err   error
}

// Process is a running ProcessFunc. It embeds a *BaseEvent: a Process is
// itself an Event other processes can yield on to wait for its completion.
type Process struct {
	*BaseEvent

	env  *Environment
	fn   ProcessFunc
	name string

	resumeCh chan resumeMsg
	yieldCh  chan yieldMsg

	waitingOn Event
	waitToken uint64
	started   bool

	// pendingInterrupt records an Interrupt delivered before the process
	// has run its first statement. It is consumed by the first call to
	// yield, which throws it into the coroutine at its first suspension
	// point instead of actually waiting on the yielded Event.
	pendingInterrupt    bool
	pendingInterruptVal interface{}
}

// newProcess creates a Process bound to env and schedules its bootstrap.
// The bootstrap runs at Urgent priority and delay 0 so a process created
// mid-tick starts running before any Normal-priority work already queued
// for that same tick.
func newProcess(env *Environment, fn ProcessFunc) *Process {
	p := &Process{
		BaseEvent: env.NewEvent(),
		env:       env,
		fn:        fn,
		name:      nameOf(fn),
		resumeCh:  make(chan resumeMsg),
		yieldCh:   make(chan yieldMsg),
	}

	init := env.NewEvent()
	init.addCallback(p.start)
	init.triggerAt(true, nil, Urgent, 0)

	return p
}

// Name returns a best-effort identifier for the process, derived from its
// ProcessFunc's declared name, or "anonymous" if none can be recovered
// (e.g. a closure the runtime does not name usefully).
func (p *Process) Name() string { return p.name }

func nameOf(fn ProcessFunc) string {
	ptr := reflect.ValueOf(fn).Pointer()
	rf := runtime.FuncForPC(ptr)
	if rf == nil || rf.Name() == "" {
		return "anonymous"
	}
	return rf.Name()
}

// start is the bootstrap Event's callback: it launches the process
// goroutine and blocks the calling Environment.Step until the process
// either yields or returns, exactly as every later resume does.
func (p *Process) start(Event) error {
	p.started = true
	p.env.processStarted(p)
	p.env.active = p
	go p.run()
	return p.pump()
}

func (p *Process) run() {
	ctx := &ProcessContext{p: p}
	value, err := p.fn(ctx)
	p.yieldCh <- yieldMsg{done: true, value: value, err: err}
}

// pump blocks until the process goroutine reports its next move, then
// either registers a resume callback on the awaited event or finalizes the
// Process. It always runs on the Environment's goroutine.
func (p *Process) pump() error {
	msg := <-p.yieldCh
	p.env.active = nil

	if msg.done {
		return p.finish(msg.value, msg.err)
	}

	p.waitingOn = msg.event
	p.waitToken = msg.event.addCallback(p.onWaitTriggered)
	p.env.processYielded(p, msg.event)
	return nil
}

// onWaitTriggered is the resume callback registered on whatever Event the
// process is currently suspended on.
func (p *Process) onWaitTriggered(e Event) error {
	p.waitingOn = nil

	if !e.Ok() {
		e.SetDefused(true)
	}

	p.env.active = p
	p.resumeCh <- resumeMsg{value: nilIfFailed(e), err: e.Err()}
	return p.pump()
}

func nilIfFailed(e Event) interface{} {
	if !e.Ok() {
		return nil
	}
	return e.Value()
}

// finish raises the Process's own Event outcome once its ProcessFunc has
// returned.
func (p *Process) finish(value interface{}, err error) error {
	p.waitingOn = nil
	p.env.processCompleted(p, value, err)

	if err != nil {
		_, ferr := p.Fail(err)
		return ferr
	}

	_, ferr := p.Succeed(value)
	return ferr
}

// yield is the suspend/resume core behind ProcessContext.Yield.
func (p *Process) yield(e Event) (interface{}, error) {
	if p.pendingInterrupt {
		p.pendingInterrupt = false
		cause := p.pendingInterruptVal
		p.pendingInterruptVal = nil
		return nil, NewError(Interrupted, "process interrupted", cause)
	}

	if e.Env() != p.env {
		return nil, KindError(MixedEnvironment)
	}

	if e.Processed() {
		if !e.Ok() {
			e.SetDefused(true)
		}
		return nilIfFailed(e), e.Err()
	}

	p.yieldCh <- yieldMsg{event: e}
	msg := <-p.resumeCh
	return msg.value, msg.err
}

// Interrupt requires the process to be alive (its own Event still Pending);
// it fails with Interrupted if the process has already completed. A
// process interrupted before it has run its first statement records the
// interrupt and delivers it at the first call to Yield, since there is no
// suspension point to resume into yet. A process already suspended on some
// Event is resumed immediately with an Interrupted failure carrying cause:
// its pending resume callback on the event it was waiting on is removed,
// since the process is being woken by the interrupt instead, and leaving
// the old callback registered would let the original event resume it a
// second time later.
func (p *Process) Interrupt(cause interface{}) error {
	if p.Processed() {
		return NewError(Interrupted, "process is not suspended", cause)
	}

	if !p.started {
		p.pendingInterrupt = true
		p.pendingInterruptVal = cause
		return nil
	}

	if p.waitingOn == nil {
		return NewError(Interrupted, "process is not suspended", cause)
	}

	p.waitingOn.removeCallback(p.waitToken)
	p.waitingOn = nil

	wake := p.env.NewEvent()
	wake.addCallback(func(Event) error {
		p.env.processInterrupted(p, cause)
		p.env.active = p
		p.resumeCh <- resumeMsg{value: nil, err: NewError(Interrupted, "process interrupted", cause)}
		return p.pump()
	})
	wake.triggerAt(true, nil, Urgent, 0)

	return nil
}
