package compose

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/go-pluto/lattice/crdt"
)

// The operation-validation and merge-validation taxonomies are disjoint
// on purpose: whether an operation can be applied and whether a merge can
// happen fail for different reasons. Field-level causes are wrapped with
// the field's declared name as tag.

// ErrEmptyOp reports an aggregate operation none of whose field entries
// carries an update. Note the asymmetry: ValidateOp rejects such an
// operation while Apply treats it as a silent no-op.
var ErrEmptyOp = errors.New("operation does not touch any field")

// Structs

// StaleOpError reports an aggregate operation whose dot is not newer
// than the counter the aggregate's clock recorded for that actor, i.e.
// an operation this replica has already applied.
type StaleOpError[A comparable] struct {
	Dot crdt.Dot[A]
	Err error
}

func (e *StaleOpError[A]) Error() string {
	return fmt.Sprintf("operation %s already applied: %v", e.Dot, e.Err)
}

func (e *StaleOpError[A]) Unwrap() error {
	return e.Err
}

// FieldOpError wraps a field's own operation-validation failure,
// tagged with the field's declared name.
type FieldOpError struct {
	Field string
	Err   error
}

func (e *FieldOpError) Error() string {
	return fmt.Sprintf("field %q rejects operation: %v", e.Field, e.Err)
}

func (e *FieldOpError) Unwrap() error {
	return e.Err
}

// FieldMergeError wraps a field's own merge-validation failure, tagged
// with the field's declared name. It is the only variant of the
// merge-validation taxonomy: the aggregate's clock join cannot fail.
type FieldMergeError struct {
	Field string
	Err   error
}

func (e *FieldMergeError) Error() string {
	return fmt.Sprintf("field %q rejects merge: %v", e.Field, e.Err)
}

func (e *FieldMergeError) Unwrap() error {
	return e.Err
}
