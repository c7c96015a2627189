package crdt

import (
	"testing"
)

// Functions

// TestVClockApply executes a white-box unit test
// on implemented Apply() function.
func TestVClockApply(t *testing.T) {

	v := NewVClock[string]()

	// Make sure, clock is initially empty.
	if v.Len() != 0 {
		t.Fatalf("[crdt.TestVClockApply] Expected clock to be empty initially, but Len() returned %d\n", v.Len())
	}

	if v.Get("A") != 0 {
		t.Fatalf("[crdt.TestVClockApply] Expected counter 0 for unseen actor, but Get() returned %d\n", v.Get("A"))
	}

	v.Apply(Dot[string]{Actor: "A", Counter: 3})
	if v.Get("A") != 3 {
		t.Fatalf("[crdt.TestVClockApply] Expected counter 3 but Get() returned %d\n", v.Get("A"))
	}

	// An older dot must not move the counter backwards.
	v.Apply(Dot[string]{Actor: "A", Counter: 2})
	if v.Get("A") != 3 {
		t.Fatalf("[crdt.TestVClockApply] Expected counter to stay at 3 but Get() returned %d\n", v.Get("A"))
	}

	// Re-applying the same dot is a no-op.
	v.Apply(Dot[string]{Actor: "A", Counter: 3})
	if v.Get("A") != 3 {
		t.Fatalf("[crdt.TestVClockApply] Expected counter to stay at 3 but Get() returned %d\n", v.Get("A"))
	}
}

// TestVClockValidateOp executes a white-box unit test
// on implemented ValidateOp() function.
func TestVClockValidateOp(t *testing.T) {

	v := NewVClock[string]()

	if err := v.ValidateOp(Dot[string]{Actor: "A", Counter: 1}); err != nil {
		t.Fatalf("[crdt.TestVClockValidateOp] Expected fresh dot to validate but got: %v\n", err)
	}

	v.Apply(Dot[string]{Actor: "A", Counter: 2})

	// Equal counter is stale.
	err := v.ValidateOp(Dot[string]{Actor: "A", Counter: 2})
	if err == nil {
		t.Fatalf("[crdt.TestVClockValidateOp] Expected stale error for equal counter but got nil\n")
	}

	stale, ok := err.(*StaleDotError[string])
	if !ok {
		t.Fatalf("[crdt.TestVClockValidateOp] Expected *StaleDotError but got %T\n", err)
	}
	if stale.Seen != 2 {
		t.Fatalf("[crdt.TestVClockValidateOp] Expected Seen = 2 but got %d\n", stale.Seen)
	}

	// Lower counter is stale.
	if err := v.ValidateOp(Dot[string]{Actor: "A", Counter: 1}); err == nil {
		t.Fatalf("[crdt.TestVClockValidateOp] Expected stale error for lower counter but got nil\n")
	}

	// ValidateOp never mutates.
	if v.Get("A") != 2 {
		t.Fatalf("[crdt.TestVClockValidateOp] Expected ValidateOp not to mutate clock but Get() returned %d\n", v.Get("A"))
	}
}

// TestVClockMerge executes a white-box unit test
// on implemented Merge() function.
func TestVClockMerge(t *testing.T) {

	a := NewVClock[string]()
	b := NewVClock[string]()

	a.Apply(Dot[string]{Actor: "A", Counter: 4})
	a.Apply(Dot[string]{Actor: "B", Counter: 1})
	b.Apply(Dot[string]{Actor: "B", Counter: 3})
	b.Apply(Dot[string]{Actor: "C", Counter: 2})

	if err := a.ValidateMerge(b); err != nil {
		t.Fatalf("[crdt.TestVClockMerge] Expected ValidateMerge to always succeed but got: %v\n", err)
	}

	// Merge both directions and compare for commutativity.
	aCopy := a.Clone()
	a.Merge(b)
	b.Merge(aCopy)

	for actor, want := range map[string]uint64{"A": 4, "B": 3, "C": 2} {
		if a.Get(actor) != want {
			t.Fatalf("[crdt.TestVClockMerge] Expected counter %d for %s but got %d\n", want, actor, a.Get(actor))
		}
	}

	if !a.Equal(b) {
		t.Fatalf("[crdt.TestVClockMerge] Expected merge to commute but clocks differ\n")
	}

	// Merging is idempotent.
	before := a.Clone()
	a.Merge(b)
	if !a.Equal(before) {
		t.Fatalf("[crdt.TestVClockMerge] Expected repeated merge to change nothing but clocks differ\n")
	}
}
