package crdt

import "github.com/pkg/errors"

// Structs

// Direction tells whether a PNCounter operation increments or decrements.
type Direction uint8

const (
	// Pos marks an increment.
	Pos Direction = iota
	// Neg marks a decrement.
	Neg
)

// PNCounterOp is the operation type of PNCounter: a dot for the affected
// inner counter plus the direction selecting that counter.
type PNCounterOp[A comparable] struct {
	Dot Dot[A]    `cbor:"dot"`
	Dir Direction `cbor:"dir"`
}

// PNCounter is a counter supporting increments and decrements, realized
// as a pair of grow-only counters whose difference is the value.
type PNCounter[A comparable] struct {
	pos *GCounter[A]
	neg *GCounter[A]
}

// ErrUnknownDirection reports a PNCounter operation whose direction is
// neither Pos nor Neg.
var ErrUnknownDirection = errors.New("pncounter operation carries an unknown direction")

// Functions

// NewPNCounter returns an empty initialized new pn-counter.
func NewPNCounter[A comparable]() *PNCounter[A] {
	return &PNCounter[A]{
		pos: NewGCounter[A](),
		neg: NewGCounter[A](),
	}
}

// Inc prepares the operation incrementing the counter by one on behalf
// of actor. Local state is left untouched until Apply.
func (c *PNCounter[A]) Inc(actor A) PNCounterOp[A] {
	return PNCounterOp[A]{Dot: c.pos.Inc(actor), Dir: Pos}
}

// Dec prepares the operation decrementing the counter by one on behalf
// of actor.
func (c *PNCounter[A]) Dec(actor A) PNCounterOp[A] {
	return PNCounterOp[A]{Dot: c.neg.Inc(actor), Dir: Neg}
}

// Apply executes op against the inner counter its direction selects.
// Operations with an unknown direction are ignored; Apply never fails.
func (c *PNCounter[A]) Apply(op PNCounterOp[A]) {
	switch op.Dir {
	case Pos:
		c.pos.Apply(op.Dot)
	case Neg:
		c.neg.Apply(op.Dot)
	}
}

// ValidateOp fails if the operation's direction is unknown.
func (c *PNCounter[A]) ValidateOp(op PNCounterOp[A]) error {
	if op.Dir != Pos && op.Dir != Neg {
		return ErrUnknownDirection
	}
	return nil
}

// Merge joins other into the counter, inner counter by inner counter.
func (c *PNCounter[A]) Merge(other *PNCounter[A]) {
	c.pos.Merge(other.pos)
	c.neg.Merge(other.neg)
}

// ValidateMerge always succeeds.
func (c *PNCounter[A]) ValidateMerge(other *PNCounter[A]) error {
	return nil
}

// Read returns the current counter value, increments minus decrements.
func (c *PNCounter[A]) Read() int64 {
	return int64(c.pos.Read()) - int64(c.neg.Read())
}
