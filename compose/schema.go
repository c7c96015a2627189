package compose

import (
	"github.com/pkg/errors"

	"github.com/go-pluto/lattice/crdt"
)

// Structs

// Schema is the declared, ordered field layout shared by all replicas of
// one aggregate type. The actor type A identifies replicas in the dots
// of aggregate operations.
type Schema[A comparable] struct {
	defs  []FieldDef
	index map[string]int
}

// Functions

// NewSchema fixes the aggregate layout for the given fields in declared
// order. Empty and duplicate field names are composition-time errors;
// they are the only failures this package raises outside validation.
func NewSchema[A comparable](fields ...FieldDef) (*Schema[A], error) {
	if len(fields) == 0 {
		return nil, errors.New("schema declares no fields")
	}

	index := make(map[string]int, len(fields))

	for i, def := range fields {
		if def.name == "" {
			return nil, errors.Errorf("field at position %d has an empty name", i)
		}
		if def.build == nil {
			return nil, errors.Errorf("field %q was not declared via Field", def.name)
		}
		if _, dup := index[def.name]; dup {
			return nil, errors.Errorf("field name %q declared twice", def.name)
		}
		index[def.name] = i
	}

	return &Schema[A]{defs: fields, index: index}, nil
}

// New synthesizes a fresh replica of the aggregate: all fields at their
// default values in declared order, clock empty.
func (s *Schema[A]) New() *Aggregate[A] {
	slots := make([]*slot, len(s.defs))
	for i, def := range s.defs {
		slots[i] = def.build()
	}

	return &Aggregate[A]{
		schema: s,
		slots:  slots,
		clock:  crdt.NewVClock[A](),
	}
}

// Names returns the field names in declared order.
func (s *Schema[A]) Names() []string {
	names := make([]string, len(s.defs))
	for i, def := range s.defs {
		names[i] = def.name
	}
	return names
}

// Len returns the number of declared fields.
func (s *Schema[A]) Len() int {
	return len(s.defs)
}
