package des

// Observer is the optional instrumentation surface. It is never required:
// an Environment with no registered Observer runs identically, and any
// error an Observer method panics with is recovered and discarded.
// Observer errors never perturb the simulation.
//
// Generalized from a single Hook.Func(ctx HookCtx) dispatched by
// HookCtx.Pos (sim/hook.go) into one method per notification point, so
// implementers can embed NopObserver and override only what they need
// instead of switching on a position code.
type Observer interface {
	OnEventScheduled(e Event, t Time, p Priority)
	OnEventSucceeded(e Event)
	OnEventFailed(e Event, err error)
	OnProcessStarted(p *Process)
	OnProcessYielded(p *Process, yielded Event)
	OnProcessCompleted(p *Process, value interface{}, err error)
	OnProcessInterrupted(p *Process, cause interface{})
	OnResourceRequested(r *Resource, req *GetResource)
	OnResourceAcquired(r *Resource, req *GetResource)
	OnResourceReleased(r *Resource, put *PutResource)
	OnStep(t Time)
}

// NopObserver implements Observer with no-op methods. Embed it to
// implement only the notifications you care about.
type NopObserver struct{}

func (NopObserver) OnEventScheduled(Event, Time, Priority)          {}
func (NopObserver) OnEventSucceeded(Event)                          {}
func (NopObserver) OnEventFailed(Event, error)                      {}
func (NopObserver) OnProcessStarted(*Process)                       {}
func (NopObserver) OnProcessYielded(*Process, Event)                {}
func (NopObserver) OnProcessCompleted(*Process, interface{}, error) {}
func (NopObserver) OnProcessInterrupted(*Process, interface{})      {}
func (NopObserver) OnResourceRequested(*Resource, *GetResource)     {}
func (NopObserver) OnResourceAcquired(*Resource, *GetResource)      {}
func (NopObserver) OnResourceReleased(*Resource, *PutResource)      {}
func (NopObserver) OnStep(Time)                                     {}

// ObserverRegistry holds a fanned-out list of Observers and invokes them
// synchronously, swallowing anything an Observer method panics with.
// Grounded on sim/hook.go's HookableBase/InvokeHook, generalized from a
// single Hooks slice dispatched by a position code to a typed
// per-notification fan-out.
type ObserverRegistry struct {
	observers []Observer
}

// Register adds an Observer to the registry.
func (r *ObserverRegistry) Register(o Observer) {
	r.observers = append(r.observers, o)
}

func (r *ObserverRegistry) notify(fn func(Observer)) {
	for _, o := range r.observers {
		safeNotify(o, fn)
	}
}

func safeNotify(o Observer, fn func(Observer)) {
	defer func() {
		_ = recover()
	}()
	fn(o)
}

func (r *ObserverRegistry) eventScheduled(e Event, t Time, p Priority) {
	r.notify(func(o Observer) { o.OnEventScheduled(e, t, p) })
}

func (r *ObserverRegistry) eventSucceeded(e Event) {
	r.notify(func(o Observer) { o.OnEventSucceeded(e) })
}

func (r *ObserverRegistry) eventFailed(e Event, err error) {
	r.notify(func(o Observer) { o.OnEventFailed(e, err) })
}

func (r *ObserverRegistry) processStarted(p *Process) {
	r.notify(func(o Observer) { o.OnProcessStarted(p) })
}

func (r *ObserverRegistry) processYielded(p *Process, y Event) {
	r.notify(func(o Observer) { o.OnProcessYielded(p, y) })
}

func (r *ObserverRegistry) processCompleted(p *Process, v interface{}, err error) {
	r.notify(func(o Observer) { o.OnProcessCompleted(p, v, err) })
}

func (r *ObserverRegistry) processInterrupted(p *Process, cause interface{}) {
	r.notify(func(o Observer) { o.OnProcessInterrupted(p, cause) })
}

func (r *ObserverRegistry) resourceRequested(res *Resource, req *GetResource) {
	r.notify(func(o Observer) { o.OnResourceRequested(res, req) })
}

func (r *ObserverRegistry) resourceAcquired(res *Resource, req *GetResource) {
	r.notify(func(o Observer) { o.OnResourceAcquired(res, req) })
}

func (r *ObserverRegistry) resourceReleased(res *Resource, put *PutResource) {
	r.notify(func(o Observer) { o.OnResourceReleased(res, put) })
}

func (r *ObserverRegistry) step(t Time) {
	r.notify(func(o Observer) { o.OnStep(t) })
}
