package des

// NewTimeout creates an Event that succeeds with value after delay virtual
// time units, at Normal priority. It fails with NegativeDelay if delay is
// negative. A delay of 0 triggers on the same tick it was scheduled on,
// after any already-queued same-tick work ahead of it in FIFO order.
func NewTimeout(env *Environment, delay Time, value interface{}) (*BaseEvent, error) {
	if delay < 0 {
		return nil, NewError(NegativeDelay, "Timeout delay must be non-negative", delay)
	}

	e := env.NewEvent()
	e.triggerAt(true, value, Normal, delay)
	return e, nil
}
