package crdt

// Structs

// GCounter is a grow-only counter. Each actor owns one slot that only
// ever increases; the counter value is the sum over all slots. Its
// operation type is a plain Dot carrying the actor's new slot value.
type GCounter[A comparable] struct {
	counts map[A]uint64
}

// Functions

// NewGCounter returns an empty initialized new grow-only counter.
func NewGCounter[A comparable]() *GCounter[A] {
	return &GCounter[A]{
		counts: make(map[A]uint64),
	}
}

// Inc prepares the operation incrementing actor's slot by one. The
// counter itself is left untouched; pass the returned dot to Apply on
// every replica, the local one included.
func (c *GCounter[A]) Inc(actor A) Dot[A] {
	return Dot[A]{Actor: actor, Counter: c.counts[actor] + 1}
}

// IncBy prepares the operation incrementing actor's slot by steps.
func (c *GCounter[A]) IncBy(actor A, steps uint64) Dot[A] {
	return Dot[A]{Actor: actor, Counter: c.counts[actor] + steps}
}

// Apply raises the slot of the operation's actor to the operation's
// counter if that is higher. Duplicate or reordered deliveries of the
// same operation therefore cannot inflate the count.
func (c *GCounter[A]) Apply(op Dot[A]) {
	if op.Counter > c.counts[op.Actor] {
		c.counts[op.Actor] = op.Counter
	}
}

// ValidateOp always succeeds, any dot can be applied safely.
func (c *GCounter[A]) ValidateOp(op Dot[A]) error {
	return nil
}

// Merge joins other into the counter, keeping the pointwise
// maximum slot value per actor.
func (c *GCounter[A]) Merge(other *GCounter[A]) {
	for actor, count := range other.counts {
		if count > c.counts[actor] {
			c.counts[actor] = count
		}
	}
}

// ValidateMerge always succeeds.
func (c *GCounter[A]) ValidateMerge(other *GCounter[A]) error {
	return nil
}

// Read returns the current counter value, the sum over all actor slots.
func (c *GCounter[A]) Read() uint64 {
	var sum uint64
	for _, count := range c.counts {
		sum += count
	}
	return sum
}
