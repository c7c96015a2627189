package crdt

import "fmt"

// Structs

// LWWRegisterOp is the operation type of LWWRegister: the new value and
// the marker claiming it.
type LWWRegisterOp[T comparable] struct {
	Val    T      `cbor:"val"`
	Marker uint64 `cbor:"marker"`
}

// LWWRegister is a last-writer-wins register. Writes carry a totally
// ordered marker (a timestamp, a sequence number); the write with the
// highest marker wins. Marker 0 is reserved for the unwritten register,
// and two distinct values under the same marker are a conflict the
// caller must prevent, surfaced by ValidateOp and ValidateMerge.
type LWWRegister[T comparable] struct {
	val    T
	marker uint64
}

// ConflictingMarkerError reports two different register values competing
// under the same marker. Such writes have no deterministic winner.
type ConflictingMarkerError struct {
	Marker uint64
}

func (e *ConflictingMarkerError) Error() string {
	return fmt.Sprintf("conflicting register values under marker %d", e.Marker)
}

// Functions

// NewLWWRegister returns an unwritten new last-writer-wins register.
func NewLWWRegister[T comparable]() *LWWRegister[T] {
	return &LWWRegister[T]{}
}

// Set prepares the operation writing val under marker.
func (r *LWWRegister[T]) Set(val T, marker uint64) LWWRegisterOp[T] {
	return LWWRegisterOp[T]{Val: val, Marker: marker}
}

// Apply takes the operation's value if its marker is higher than the
// current one and does nothing otherwise, so replays cannot regress
// the register.
func (r *LWWRegister[T]) Apply(op LWWRegisterOp[T]) {
	if op.Marker > r.marker {
		r.val = op.Val
		r.marker = op.Marker
	}
}

// ValidateOp fails if the operation carries the register's current
// marker but a different value.
func (r *LWWRegister[T]) ValidateOp(op LWWRegisterOp[T]) error {
	if op.Marker == r.marker && r.marker != 0 && op.Val != r.val {
		return &ConflictingMarkerError{Marker: op.Marker}
	}
	return nil
}

// Merge takes other's value if other carries the higher marker.
func (r *LWWRegister[T]) Merge(other *LWWRegister[T]) {
	if other.marker > r.marker {
		r.val = other.val
		r.marker = other.marker
	}
}

// ValidateMerge fails if both registers hold different values under the
// same non-zero marker; joining them would not commute.
func (r *LWWRegister[T]) ValidateMerge(other *LWWRegister[T]) error {
	if other.marker == r.marker && r.marker != 0 && other.val != r.val {
		return &ConflictingMarkerError{Marker: r.marker}
	}
	return nil
}

// Read returns the current value and the marker that wrote it. The
// marker is 0 if the register was never written.
func (r *LWWRegister[T]) Read() (T, uint64) {
	return r.val, r.marker
}
