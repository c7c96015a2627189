package crdt

import (
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Structs

// ORSetOp represents one update to an observed-removed set: either an
// add introducing a value under fresh unique tags or a rmv retiring the
// tags observed for a value.
type ORSetOp[T comparable] struct {
	Operation string   `cbor:"operation"`
	Value     T        `cbor:"value,omitempty"`
	Tags      []string `cbor:"tags"`
}

// ORSet conforms to the specification of an observed-removed set defined
// by Shapiro, Preguiça, Baquero and Zawirski. It consists of unique tags
// as keys and set members as values; removed tags are kept as tombstones
// so that state joins of diverged replicas agree on removals.
type ORSet[T comparable] struct {
	elements map[string]T
	removed  map[string]struct{}
}

// TagConflictError reports a state merge in which the same unique tag
// maps to two different values, which a correct tagging scheme rules out.
type TagConflictError struct {
	Tag string
}

func (e *TagConflictError) Error() string {
	return "same element tag maps to different values: " + e.Tag
}

// ErrUntaggedOp reports an observed-removed set operation carrying no tags.
var ErrUntaggedOp = errors.New("or-set operation carries no tags")

// Functions

// NewORSet returns an empty initialized new observed-removed set.
func NewORSet[T comparable]() *ORSet[T] {
	return &ORSet[T]{
		elements: make(map[string]T),
		removed:  make(map[string]struct{}),
	}
}

// Add prepares the update operation inserting value into the set under
// a new unique tag. The set itself is left untouched until Apply.
func (s *ORSet[T]) Add(value T) ORSetOp[T] {
	return ORSetOp[T]{
		Operation: "add",
		Value:     value,
		Tags:      []string{uuid.NewV4().String()},
	}
}

// Rmv prepares the update operation removing value from the set. Only
// the tags observed locally at prepare time are retired, so adds of the
// same value that were concurrent to this removal survive it.
func (s *ORSet[T]) Rmv(value T) ORSetOp[T] {
	op := ORSetOp[T]{Operation: "rmv"}

	for tag, element := range s.elements {
		if element == value {
			op.Tags = append(op.Tags, tag)
		}
	}

	return op
}

// Apply executes the effect part of the update on the local replica.
// Adds of already retired tags stay retired; unknown operations are
// ignored. Apply never fails.
func (s *ORSet[T]) Apply(op ORSetOp[T]) {
	switch op.Operation {
	case "add":
		for _, tag := range op.Tags {
			if _, retired := s.removed[tag]; !retired {
				s.elements[tag] = op.Value
			}
		}
	case "rmv":
		for _, tag := range op.Tags {
			s.removed[tag] = struct{}{}
			delete(s.elements, tag)
		}
	}
}

// ValidateOp fails on operations other than add and rmv and on
// operations carrying no tags.
func (s *ORSet[T]) ValidateOp(op ORSetOp[T]) error {
	if op.Operation != "add" && op.Operation != "rmv" {
		return errors.Errorf("unsupported update operation: %q", op.Operation)
	}

	if len(op.Tags) == 0 {
		return ErrUntaggedOp
	}

	return nil
}

// Merge joins other into the set: tombstones are unioned first, then all
// live tags of both replicas that have not been retired anywhere.
func (s *ORSet[T]) Merge(other *ORSet[T]) {
	for tag := range other.removed {
		s.removed[tag] = struct{}{}
		delete(s.elements, tag)
	}

	for tag, value := range other.elements {
		if _, retired := s.removed[tag]; !retired {
			s.elements[tag] = value
		}
	}
}

// ValidateMerge fails if the same tag maps to different values on the
// two replicas.
func (s *ORSet[T]) ValidateMerge(other *ORSet[T]) error {
	for tag, value := range other.elements {
		if ours, found := s.elements[tag]; found && ours != value {
			return &TagConflictError{Tag: tag}
		}
	}

	return nil
}

// Lookup cycles through elements in the ORSet and returns true if value
// is present under at least one live tag and false otherwise.
func (s *ORSet[T]) Lookup(value T) bool {
	for _, element := range s.elements {
		if element == value {
			return true
		}
	}

	return false
}

// Len returns the number of live tags in the set. Values added multiple
// times concurrently count once per surviving tag.
func (s *ORSet[T]) Len() int {
	return len(s.elements)
}

// Members returns the distinct values currently in the set in no
// particular order.
func (s *ORSet[T]) Members() []T {
	seen := make(map[T]struct{}, len(s.elements))
	members := make([]T, 0, len(s.elements))

	for _, value := range s.elements {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		members = append(members, value)
	}

	return members
}
