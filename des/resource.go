package des

// Resource arbitrates shared capacity among competing processes. Requests
// to acquire ("get") and release ("put") units are themselves Events,
// queued FIFO and resolved by triggerGet/triggerPut. Generalized from
// sim.Buffer (a single bounded FIFO of messages; sim/buffer.go) into a pair
// of FIFOs arbitrating an abstract unit count rather than carrying
// payloads.
type Resource struct {
	env      *Environment
	capacity int
	users    int

	getQueue *fifo[*GetResource]
	putQueue *fifo[*PutResource]
}

// NewResource creates a Resource with the given capacity. It fails with
// CapacityViolation if capacity is not positive.
func NewResource(env *Environment, capacity int) (*Resource, error) {
	if capacity <= 0 {
		return nil, NewError(CapacityViolation, "Resource capacity must be positive", capacity)
	}

	return &Resource{
		env:      env,
		capacity: capacity,
		getQueue: newFIFO[*GetResource](),
		putQueue: newFIFO[*PutResource](),
	}, nil
}

// Capacity returns the Resource's total unit count.
func (r *Resource) Capacity() int { return r.capacity }

// Users returns how many units are currently held.
func (r *Resource) Users() int { return r.users }

// Queue returns how many Get requests are waiting for units.
func (r *Resource) Queue() int { return r.getQueue.len() }

// GetResource is a pending or resolved request to acquire amount units of a
// Resource. It embeds a *BaseEvent: yielding a GetResource suspends a
// process until enough units are free.
type GetResource struct {
	*BaseEvent
	resource *Resource
	amount   int
}

// Resource returns the GetResource's owning Resource.
func (req *GetResource) Resource() *Resource { return req.resource }

// Amount returns how many units the GetResource asked for.
func (req *GetResource) Amount() int { return req.amount }

// Get requests amount units of r. The returned GetResource triggers
// immediately if enough units are free, or once enough are freed by
// matching Puts, in FIFO order among other waiting Gets: a request that
// cannot be satisfied yet blocks every request queued behind it, even one
// for a smaller amount, since granting out of order would break FIFO
// fairness. It fails with CapacityViolation if amount is not positive.
func (r *Resource) Get(amount int) (*GetResource, error) {
	if amount <= 0 {
		return nil, NewError(CapacityViolation, "GetResource amount must be positive", amount)
	}

	req := &GetResource{BaseEvent: r.env.NewEvent(), resource: r, amount: amount}
	r.getQueue.pushBack(req)
	req.addCallback(func(Event) error {
		r.triggerPut()
		return nil
	})

	r.env.resourceRequested(r, req)
	r.triggerPut()
	r.triggerGet()

	return req, nil
}

// Request is Get with amount fixed at 1.
func (r *Resource) Request() (*GetResource, error) {
	return r.Get(1)
}

// Cancel withdraws a GetResource that has not yet triggered. It fails with
// AlreadyTriggered if the request already resolved.
func (req *GetResource) Cancel() error {
	if req.Triggered() {
		return KindError(AlreadyTriggered)
	}

	if !req.resource.getQueue.removeWhere(func(g *GetResource) bool { return g == req }) {
		return KindError(EmptyQueue)
	}

	return nil
}

// triggerGet walks the get queue head-first, handing out units while
// capacity allows, splicing out and granting every request it can before
// stopping at the first one still too large for the free capacity: FIFO
// fairness means that head-of-line request blocks everyone behind it too.
func (r *Resource) triggerGet() {
	for {
		head, ok := r.getQueue.peekFront()
		if !ok {
			return
		}

		if r.capacity-r.users < head.amount {
			return
		}

		r.getQueue.popFront()
		r.users += head.amount
		_, _ = head.Succeed(nil)
		r.env.resourceAcquired(r, head)
	}
}

// PutResource is a pending or resolved request to release amount units back
// to a Resource. It embeds a *BaseEvent for symmetry with GetResource: most
// releases resolve on the tick they are created, but one asking for more
// units than are currently held blocks until a later Get raises the count
// far enough.
type PutResource struct {
	*BaseEvent
	resource *Resource
	amount   int
}

// Resource returns the PutResource's owning Resource.
func (put *PutResource) Resource() *Resource { return put.resource }

// Amount returns how many units the PutResource is releasing.
func (put *PutResource) Amount() int { return put.amount }

// Put releases amount units back to r. A release is not tied to any
// particular GetResource handle: it succeeds once r.Users() is at least
// amount, subtracting amount from the running count, and otherwise waits
// FIFO behind any earlier Put still blocked the same way. It fails with
// CapacityViolation if amount is not positive.
func (r *Resource) Put(amount int) (*PutResource, error) {
	if amount <= 0 {
		return nil, NewError(CapacityViolation, "PutResource amount must be positive", amount)
	}

	put := &PutResource{BaseEvent: r.env.NewEvent(), resource: r, amount: amount}
	r.putQueue.pushBack(put)
	put.addCallback(func(Event) error {
		r.triggerGet()
		return nil
	})

	r.triggerGet()
	r.triggerPut()

	return put, nil
}

// Release is Put with amount fixed at 1.
func (r *Resource) Release() (*PutResource, error) {
	return r.Put(1)
}

// Cancel withdraws a PutResource that has not yet triggered.
func (put *PutResource) Cancel() error {
	if put.Triggered() {
		return KindError(AlreadyTriggered)
	}

	if !put.resource.putQueue.removeWhere(func(p *PutResource) bool { return p == put }) {
		return KindError(EmptyQueue)
	}

	return nil
}

// triggerPut walks the put queue head-first, crediting each release back to
// the Resource's users count while enough units are checked out to cover
// it. It does not hand the freed units to waiting Gets: that happens when
// the PutResource's own callback calls triggerGet, once the Environment
// processes the release. Put calls triggerGet before triggerPut, so that
// call only hands out units freed by earlier releases.
func (r *Resource) triggerPut() {
	for {
		head, ok := r.putQueue.peekFront()
		if !ok {
			return
		}

		if r.users < head.amount {
			return
		}

		r.putQueue.popFront()
		r.users -= head.amount
		_, _ = head.Succeed(nil)
		r.env.resourceReleased(r, head)
	}
}
