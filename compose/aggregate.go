package compose

import (
	"github.com/pkg/errors"

	"github.com/go-pluto/lattice/crdt"
)

// Structs

// Aggregate is one replica of a synthesized composite type. It holds one
// value per declared field plus a single vector clock that deduplicates
// aggregate operations; whatever causal metadata a field keeps inside is
// its own business. An aggregate satisfies both replication contracts,
// crdt.Replicated[Op[A], *Aggregate[A]], and can therefore be declared
// as the field of another schema.
type Aggregate[A comparable] struct {
	schema *Schema[A]
	slots  []*slot
	clock  *crdt.VClock[A]
}

// FieldOp is one entry of an aggregate operation: the update for a
// single named field. A nil Op means the entry touches nothing.
type FieldOp struct {
	Name string
	Op   any
}

// Op is the operation type of synthesized aggregates: one dot for the
// whole causal event plus the bundled field updates in declared order.
// Fields without an entry are untouched by the operation.
type Op[A comparable] struct {
	Dot      crdt.Dot[A]
	FieldOps []FieldOp
}

// Functions

// touches reports whether any field entry carries an update.
func (op Op[A]) touches() bool {
	for _, f := range op.FieldOps {
		if f.Op != nil {
			return true
		}
	}
	return false
}

// NextDot returns the dot a new local operation of actor should carry:
// the recorded counter for actor plus one.
func (a *Aggregate[A]) NextDot(actor A) crdt.Dot[A] {
	return a.clock.Next(actor)
}

// NewOp bundles the given per-field updates under dot. Entries are laid
// out in declared field order regardless of map iteration; nil updates
// are dropped. Unknown field names are a composition-time error.
func (a *Aggregate[A]) NewOp(dot crdt.Dot[A], fieldOps map[string]any) (Op[A], error) {
	for name := range fieldOps {
		if _, ok := a.schema.index[name]; !ok {
			return Op[A]{}, errors.Errorf("schema declares no field %q", name)
		}
	}

	op := Op[A]{Dot: dot}

	for _, def := range a.schema.defs {
		fieldOp, present := fieldOps[def.name]
		if !present || fieldOp == nil {
			continue
		}
		op.FieldOps = append(op.FieldOps, FieldOp{Name: def.name, Op: fieldOp})
	}

	return op, nil
}

// Apply executes op against the replica. It is idempotent with respect
// to the operation's dot: a dot not newer than the recorded counter of
// its actor has been applied before and is suppressed. An operation
// touching no field at all is a silent no-op that leaves the clock
// untouched; ValidateOp rejects the same input, and that asymmetry of a
// lenient Apply against a strict ValidateOp is deliberate. Apply never
// fails; callers wanting the precondition checked run ValidateOp first.
func (a *Aggregate[A]) Apply(op Op[A]) {
	if op.Dot.Counter <= a.clock.Get(op.Dot.Actor) {
		return
	}

	if !op.touches() {
		return
	}

	for _, f := range op.FieldOps {
		if f.Op == nil {
			continue
		}
		if i, ok := a.schema.index[f.Name]; ok {
			a.slots[i].apply(f.Op)
		}
	}

	a.clock.Apply(op.Dot)
}

// ValidateOp is the pure precheck for Apply. It fails with a
// StaleOpError if the dot was applied before, with ErrEmptyOp if no
// field entry carries an update, and otherwise delegates to the fields
// in declared order, wrapping the first failure in a FieldOpError.
func (a *Aggregate[A]) ValidateOp(op Op[A]) error {
	if err := a.clock.ValidateOp(op.Dot); err != nil {
		return &StaleOpError[A]{Dot: op.Dot, Err: err}
	}

	present := make(map[string]any, len(op.FieldOps))
	for _, f := range op.FieldOps {
		if f.Op == nil {
			continue
		}
		if _, ok := a.schema.index[f.Name]; !ok {
			return &FieldOpError{Field: f.Name, Err: errors.New("not declared in schema")}
		}
		present[f.Name] = f.Op
	}

	if len(present) == 0 {
		return ErrEmptyOp
	}

	for i, def := range a.schema.defs {
		fieldOp, ok := present[def.name]
		if !ok {
			continue
		}
		if err := a.slots[i].validateOp(fieldOp); err != nil {
			return &FieldOpError{Field: def.name, Err: err}
		}
	}

	return nil
}

// Merge joins other into the replica: every field joins its counterpart
// in declared order, then the clocks join pointwise. Merge inherits the
// join-semilattice laws, commutativity, associativity and idempotence,
// from the fields; both replicas must stem from the same schema.
func (a *Aggregate[A]) Merge(other *Aggregate[A]) {
	for i, def := range a.schema.defs {
		if j, ok := other.schema.index[def.name]; ok {
			a.slots[i].merge(other.slots[j].value)
		}
	}

	a.clock.Merge(other.clock)
}

// ValidateMerge is the pure precheck for Merge. It delegates to the
// fields in declared order and wraps the first failure in a
// FieldMergeError. The clock join cannot fail and contributes nothing.
func (a *Aggregate[A]) ValidateMerge(other *Aggregate[A]) error {
	for i, def := range a.schema.defs {
		j, ok := other.schema.index[def.name]
		if !ok {
			continue
		}
		if err := a.slots[i].validateMerge(other.slots[j].value); err != nil {
			return &FieldMergeError{Field: def.name, Err: err}
		}
	}

	return nil
}

// Names returns the field names in declared order.
func (a *Aggregate[A]) Names() []string {
	return a.schema.Names()
}

// Clock returns a copy of the aggregate's deduplication clock.
func (a *Aggregate[A]) Clock() *crdt.VClock[A] {
	return a.clock.Clone()
}

// Value returns the live value of the named field asserted to its static
// type. The returned value is the aggregate's own: callers read it and
// prepare operations on it but mutate it through Apply only.
func Value[T any, A comparable](a *Aggregate[A], name string) (T, error) {
	var zero T

	i, ok := a.schema.index[name]
	if !ok {
		return zero, errors.Errorf("schema declares no field %q", name)
	}

	value, ok := a.slots[i].value.(T)
	if !ok {
		return zero, errors.Errorf("field %q holds a %T", name, a.slots[i].value)
	}

	return value, nil
}
