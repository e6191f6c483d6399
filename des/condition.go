package des

// ConditionValue is a successful ConditionEvent's outcome: the values of
// every child that had succeeded by the time the condition settled,
// associated back to the child that produced them and ordered the way
// newCondition was given its children.
type ConditionValue struct {
	events []Event
	values map[Event]interface{}
}

func newConditionValue() *ConditionValue {
	return &ConditionValue{values: make(map[Event]interface{})}
}

func (cv *ConditionValue) set(e Event, v interface{}) {
	cv.events = append(cv.events, e)
	cv.values[e] = v
}

// Events returns the children that had succeeded when the condition
// settled, in the order they were passed to newCondition.
func (cv *ConditionValue) Events() []Event {
	out := make([]Event, len(cv.events))
	copy(out, cv.events)
	return out
}

// Value returns the value a succeeded child produced, and whether that
// child is part of this outcome at all.
func (cv *ConditionValue) Value(e Event) (interface{}, bool) {
	v, ok := cv.values[e]
	return v, ok
}

// predicate decides, given how many children have succeeded, failed and
// triggered out of the total, whether a ConditionEvent is ready to settle
// and what its outcome should be. Splitting "ready to decide" from "decided
// as success" is what keeps any() from mistaking "everyone failed" for
// success just because every child has triggered.
type predicate func(succeeded, failed, triggered, total int) (settled, ok bool)

// all is conjunction: the condition fails the moment any child fails, and
// succeeds only once every child has succeeded.
func all(succeeded, failed, _, total int) (settled, ok bool) {
	if failed > 0 {
		return true, false
	}
	return succeeded == total, succeeded == total
}

// anyPredicate is disjunction: the condition succeeds the moment any child
// succeeds, and fails only once every child has failed.
func anyPredicate(succeeded, failed, _, total int) (settled, ok bool) {
	if succeeded > 0 {
		return true, true
	}
	return failed == total, false
}

// ConditionEvent triggers once its predicate over its children's outcomes
// settles. It embeds a *BaseEvent and adds its own fields; this package
// never raises a ConditionEvent's outcome through Succeed/Fail directly.
// newCondition wires a per-child callback that re-evaluates the predicate
// instead.
type ConditionEvent struct {
	*BaseEvent

	pred     predicate
	children []Event
}

// newCondition builds a ConditionEvent over children, settled by pred. It
// fails with MixedEnvironment if any child belongs to a different
// Environment.
func newCondition(env *Environment, pred predicate, children []Event) (*ConditionEvent, error) {
	for _, c := range children {
		if c.Env() != env {
			return nil, KindError(MixedEnvironment)
		}
	}

	c := &ConditionEvent{
		BaseEvent: env.NewEvent(),
		pred:      pred,
		children:  children,
	}

	if c.evaluate() {
		return c, nil
	}

	for _, child := range children {
		child.addCallback(c.onChildTriggered)
	}

	return c, nil
}

// evaluate checks the predicate against the children's current state and,
// if it settles, triggers the ConditionEvent. On success the value is a
// *ConditionValue over each succeeded child, in the order passed to
// newCondition; on failure it is the first failed child's error. Every
// triggered-and-failed child is defused as soon as it is observed here,
// whether or not the condition settles on this call: the condition is
// watching that child on the caller's behalf, and Environment.Step must
// not also re-raise the child's own failure out of its Step. It is
// idempotent: calling it once the ConditionEvent has already triggered is a
// no-op.
func (c *ConditionEvent) evaluate() bool {
	if c.Triggered() {
		return true
	}

	succeeded, failed, triggered := 0, 0, 0
	var firstErr error

	for _, child := range c.children {
		if !child.Triggered() {
			continue
		}
		triggered++
		if child.Ok() {
			succeeded++
		} else {
			failed++
			child.SetDefused(true)
			if firstErr == nil {
				firstErr = child.Err()
			}
		}
	}

	settled, ok := c.pred(succeeded, failed, triggered, len(c.children))
	if !settled {
		return false
	}

	if !ok {
		c.triggerAt(false, firstErr, Normal, 0)
		return true
	}

	value := newConditionValue()
	for _, child := range c.children {
		if child.Triggered() && child.Ok() {
			value.set(child, child.Value())
		}
	}

	c.triggerAt(true, value, Normal, 0)
	return true
}

func (c *ConditionEvent) onChildTriggered(Event) error {
	c.evaluate()
	return nil
}

// AllOf builds a ConditionEvent that succeeds once every event in events
// has triggered successfully, and fails as soon as any one of them fails.
// A variadic counterpart to the binary And, for the common many-child
// case.
func AllOf(env *Environment, events ...Event) (*ConditionEvent, error) {
	return newCondition(env, all, events)
}

// AnyOf builds a ConditionEvent that succeeds as soon as any event in
// events succeeds, and fails only once every one of them has failed. A
// variadic counterpart to the binary Or.
func AnyOf(env *Environment, events ...Event) (*ConditionEvent, error) {
	return newCondition(env, anyPredicate, events)
}
