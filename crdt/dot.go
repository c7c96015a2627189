package crdt

import "fmt"

// Structs

// Dot marks a single causal event: the actor it originated from and that
// actor's event counter at the time. Counters start at 1 and increase
// monotonically per actor.
type Dot[A comparable] struct {
	Actor   A      `cbor:"actor"`
	Counter uint64 `cbor:"counter"`
}

// String returns the usual actor:counter rendering of a dot.
func (d Dot[A]) String() string {
	return fmt.Sprintf("%v:%d", d.Actor, d.Counter)
}

// VClock tracks the highest counter seen per actor. It is the causal
// deduplication primitive of lattice: a dot whose counter does not exceed
// the recorded counter of its actor has been seen before.
type VClock[A comparable] struct {
	counters map[A]uint64
}

// StaleDotError reports a dot that is not newer than the highest counter
// already recorded for its actor.
type StaleDotError[A comparable] struct {
	Dot  Dot[A]
	Seen uint64
}

func (e *StaleDotError[A]) Error() string {
	return fmt.Sprintf("dot %s is stale, counter %d for this actor has been seen already", e.Dot, e.Seen)
}

// Functions

// NewVClock returns an empty initialized new vector clock.
func NewVClock[A comparable]() *VClock[A] {
	return &VClock[A]{
		counters: make(map[A]uint64),
	}
}

// Get returns the highest counter seen for actor, 0 if the
// actor never appeared.
func (v *VClock[A]) Get(actor A) uint64 {
	return v.counters[actor]
}

// Next returns the dot a new local event of actor should carry. It does
// not mutate the clock; the counter advances once the dot is applied.
func (v *VClock[A]) Next(actor A) Dot[A] {
	return Dot[A]{Actor: actor, Counter: v.counters[actor] + 1}
}

// Apply records the dot if it is newer than the recorded counter of its
// actor and is a no-op otherwise. Per-actor counters never decrease.
func (v *VClock[A]) Apply(dot Dot[A]) {
	if dot.Counter > v.counters[dot.Actor] {
		v.counters[dot.Actor] = dot.Counter
	}
}

// ValidateOp fails with a StaleDotError if the dot is not newer than the
// recorded counter for its actor.
func (v *VClock[A]) ValidateOp(dot Dot[A]) error {
	if dot.Counter <= v.counters[dot.Actor] {
		return &StaleDotError[A]{Dot: dot, Seen: v.counters[dot.Actor]}
	}
	return nil
}

// Merge joins other into the clock, keeping the pointwise
// maximum counter per actor.
func (v *VClock[A]) Merge(other *VClock[A]) {
	for actor, counter := range other.counters {
		if counter > v.counters[actor] {
			v.counters[actor] = counter
		}
	}
}

// ValidateMerge always succeeds. Vector clock joins cannot fail; the
// method exists for contract uniformity.
func (v *VClock[A]) ValidateMerge(other *VClock[A]) error {
	return nil
}

// Clone returns an independent copy of the clock.
func (v *VClock[A]) Clone() *VClock[A] {
	c := NewVClock[A]()
	for actor, counter := range v.counters {
		c.counters[actor] = counter
	}
	return c
}

// Len returns the number of actors the clock has seen.
func (v *VClock[A]) Len() int {
	return len(v.counters)
}

// Equal reports whether both clocks record the same counter for every
// actor. Actors at counter 0 and absent actors are the same thing.
func (v *VClock[A]) Equal(other *VClock[A]) bool {
	for actor, counter := range v.counters {
		if counter != 0 && other.counters[actor] != counter {
			return false
		}
	}
	for actor, counter := range other.counters {
		if counter != 0 && v.counters[actor] != counter {
			return false
		}
	}
	return true
}
