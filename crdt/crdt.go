package crdt

// Interfaces

// CmRDT is the operation contract. A type satisfying it replicates by
// exchanging discrete operations of its associated operation type O.
// Apply executes an operation against local state and must be resilient
// against operations it has already seen; it never fails. ValidateOp is
// the advisory, read-only precheck for Apply: it reports whether the
// operation can be applied cleanly but a caller trusting its input may
// skip it entirely.
type CmRDT[O any] interface {
	Apply(op O)
	ValidateOp(op O) error
}

// CvRDT is the state contract. A type satisfying it replicates by
// exchanging full states and joining them. Merge mutates the receiver to
// the least upper bound of both states and must be commutative,
// associative and idempotent. ValidateMerge is the advisory, read-only
// precheck for Merge.
type CvRDT[T any] interface {
	Merge(other T)
	ValidateMerge(other T) error
}

// Replicated combines both contracts. It is the constraint the compose
// package places on every field type of a synthesized aggregate, and the
// aggregate itself satisfies it again, so composition nests.
type Replicated[O any, T any] interface {
	CmRDT[O]
	CvRDT[T]
}
