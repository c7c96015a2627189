package crdt

// Structs

// GSetOp is the operation type of GSet, inserting a single member.
type GSetOp[T comparable] struct {
	Member T `cbor:"member"`
}

// GSet is a grow-only set: members can be inserted but never removed,
// which makes union a valid join.
type GSet[T comparable] struct {
	members map[T]struct{}
}

// Functions

// NewGSet returns an empty initialized new grow-only set.
func NewGSet[T comparable]() *GSet[T] {
	return &GSet[T]{
		members: make(map[T]struct{}),
	}
}

// Insert prepares the operation adding member to the set.
func (s *GSet[T]) Insert(member T) GSetOp[T] {
	return GSetOp[T]{Member: member}
}

// Apply inserts the operation's member. Duplicates are harmless.
func (s *GSet[T]) Apply(op GSetOp[T]) {
	s.members[op.Member] = struct{}{}
}

// ValidateOp always succeeds.
func (s *GSet[T]) ValidateOp(op GSetOp[T]) error {
	return nil
}

// Merge joins other into the set by union.
func (s *GSet[T]) Merge(other *GSet[T]) {
	for member := range other.members {
		s.members[member] = struct{}{}
	}
}

// ValidateMerge always succeeds.
func (s *GSet[T]) ValidateMerge(other *GSet[T]) error {
	return nil
}

// Lookup returns true if member is present in the set.
func (s *GSet[T]) Lookup(member T) bool {
	_, found := s.members[member]
	return found
}

// Len returns the number of members in the set.
func (s *GSet[T]) Len() int {
	return len(s.members)
}

// Members returns a copy of the current membership in no
// particular order.
func (s *GSet[T]) Members() []T {
	members := make([]T, 0, len(s.members))
	for member := range s.members {
		members = append(members, member)
	}
	return members
}
