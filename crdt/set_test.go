package crdt

import (
	"testing"
)

// Functions

// TestGSet executes a white-box unit test on the
// implemented grow-only set.
func TestGSet(t *testing.T) {

	s := NewGSet[string]()

	if s.Lookup("x") {
		t.Fatalf("[crdt.TestGSet] Expected 'x' not to be in set but Lookup() returns true\n")
	}

	op := s.Insert("x")
	if s.Lookup("x") {
		t.Fatalf("[crdt.TestGSet] Expected Insert() not to mutate but 'x' is present\n")
	}

	s.Apply(op)
	if !s.Lookup("x") {
		t.Fatalf("[crdt.TestGSet] Expected 'x' to be in set but Lookup() returns false\n")
	}

	s.Apply(op)
	if s.Len() != 1 {
		t.Fatalf("[crdt.TestGSet] Expected replay to keep one member but Len() returned %d\n", s.Len())
	}

	other := NewGSet[string]()
	other.Apply(other.Insert("y"))

	s.Merge(other)
	other.Merge(s)

	if s.Len() != 2 || other.Len() != 2 {
		t.Fatalf("[crdt.TestGSet] Expected both sets to hold two members but got %d and %d\n", s.Len(), other.Len())
	}
}

// TestORSetAddRmv executes a white-box unit test on the operation part
// of the implemented observed-removed set.
func TestORSetAddRmv(t *testing.T) {

	s := NewORSet[string]()

	addOp := s.Add("value-1")
	if len(addOp.Tags) != 1 {
		t.Fatalf("[crdt.TestORSetAddRmv] Expected one fresh tag on add but got %d\n", len(addOp.Tags))
	}

	s.Apply(addOp)
	if !s.Lookup("value-1") {
		t.Fatalf("[crdt.TestORSetAddRmv] Expected 'value-1' to be in set but Lookup() returns false\n")
	}

	// Replayed adds must not resurrect or duplicate.
	s.Apply(addOp)
	if s.Len() != 1 {
		t.Fatalf("[crdt.TestORSetAddRmv] Expected one live tag after replay but got %d\n", s.Len())
	}

	rmvOp := s.Rmv("value-1")
	if len(rmvOp.Tags) != 1 {
		t.Fatalf("[crdt.TestORSetAddRmv] Expected one observed tag on rmv but got %d\n", len(rmvOp.Tags))
	}

	s.Apply(rmvOp)
	if s.Lookup("value-1") {
		t.Fatalf("[crdt.TestORSetAddRmv] Expected 'value-1' to be removed but Lookup() returns true\n")
	}

	// An add under a retired tag stays retired, delivery order must
	// not matter.
	s.Apply(addOp)
	if s.Lookup("value-1") {
		t.Fatalf("[crdt.TestORSetAddRmv] Expected retired tag to stay retired but Lookup() returns true\n")
	}
}

// TestORSetValidateOp executes a white-box unit test
// on implemented ValidateOp() function.
func TestORSetValidateOp(t *testing.T) {

	s := NewORSet[string]()

	if err := s.ValidateOp(s.Add("v")); err != nil {
		t.Fatalf("[crdt.TestORSetValidateOp] Expected add op to validate but got: %v\n", err)
	}

	if err := s.ValidateOp(ORSetOp[string]{Operation: "frobnicate", Tags: []string{"t"}}); err == nil {
		t.Fatalf("[crdt.TestORSetValidateOp] Expected unsupported operation to fail validation\n")
	}

	if err := s.ValidateOp(ORSetOp[string]{Operation: "rmv"}); err != ErrUntaggedOp {
		t.Fatalf("[crdt.TestORSetValidateOp] Expected ErrUntaggedOp but got: %v\n", err)
	}
}

// TestORSetMerge executes a white-box unit test on the state join of
// two diverged observed-removed sets.
func TestORSetMerge(t *testing.T) {

	a := NewORSet[string]()
	b := NewORSet[string]()

	addX := a.Add("x")
	a.Apply(addX)
	b.Apply(b.Add("y"))

	// b observed x through an op delivery, then removed it.
	b.Apply(addX)
	b.Apply(b.Rmv("x"))

	if err := a.ValidateMerge(b); err != nil {
		t.Fatalf("[crdt.TestORSetMerge] Expected merge to validate but got: %v\n", err)
	}

	a.Merge(b)
	b.Merge(a)

	if a.Lookup("x") || b.Lookup("x") {
		t.Fatalf("[crdt.TestORSetMerge] Expected tombstone to win for 'x' on both replicas\n")
	}

	if !a.Lookup("y") || !b.Lookup("y") {
		t.Fatalf("[crdt.TestORSetMerge] Expected 'y' to survive on both replicas\n")
	}

	// Same tag bound to different values is a merge conflict.
	c := NewORSet[string]()
	d := NewORSet[string]()
	c.Apply(ORSetOp[string]{Operation: "add", Value: "one", Tags: []string{"tag-1"}})
	d.Apply(ORSetOp[string]{Operation: "add", Value: "two", Tags: []string{"tag-1"}})

	err := c.ValidateMerge(d)
	if err == nil {
		t.Fatalf("[crdt.TestORSetMerge] Expected tag conflict to fail merge validation\n")
	}
	if _, ok := err.(*TagConflictError); !ok {
		t.Fatalf("[crdt.TestORSetMerge] Expected *TagConflictError but got %T\n", err)
	}
}
