package compose

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/go-pluto/lattice/crdt"
)

// Structs

// FieldDef declares one named sub-component of an aggregate: the field's
// name plus the recipe for synthesizing its seat in a fresh replica.
// FieldDefs are built with Field and consumed by NewSchema.
type FieldDef struct {
	name  string
	build func() *slot
}

// slot is the synthesized, type-erased seat of one field value inside
// one aggregate instance. The closures recover the field's static types;
// they are the construction-time stand-in for per-field generated code.
type slot struct {
	value         any
	apply         func(op any)
	validateOp    func(op any) error
	merge         func(other any)
	validateMerge func(other any) error
	encodeOp      func(op any) ([]byte, error)
	decodeOp      func(data []byte) (any, error)
}

// opCodec is satisfied by field types that bring their own operation
// wire format. Aggregates do, which is what lets them nest: a nested
// aggregate's operations travel through its own EncodeOp/DecodeOp
// instead of the generic encoding.
type opCodec[O any] interface {
	EncodeOp(op O) ([]byte, error)
	DecodeOp(data []byte) (O, error)
}

// Functions

// Field declares a named field whose values satisfy both replication
// contracts: O is the field's operation type and T its value type.
// newValue must produce a fresh default value; Schema.New invokes it
// once per synthesized replica, so replicas never share field state.
//
// The operation type parameter has to be spelled out at the call site,
// the value type is inferred:
//
//	compose.Field[crdt.Dot[string]]("hits", crdt.NewGCounter[string])
func Field[O any, T crdt.Replicated[O, T]](name string, newValue func() T) FieldDef {
	return FieldDef{
		name: name,
		build: func() *slot {
			value := newValue()

			s := &slot{
				value:         value,
				apply:         func(op any) { value.Apply(op.(O)) },
				validateOp:    func(op any) error { return value.ValidateOp(op.(O)) },
				merge:         func(other any) { value.Merge(other.(T)) },
				validateMerge: func(other any) error { return value.ValidateMerge(other.(T)) },
			}

			// Fields providing their own op codec (nested aggregates)
			// serialize through it, everything else through CBOR.
			if codec, ok := any(value).(opCodec[O]); ok {
				s.encodeOp = func(op any) ([]byte, error) { return codec.EncodeOp(op.(O)) }
				s.decodeOp = func(data []byte) (any, error) { return codec.DecodeOp(data) }
			} else {
				s.encodeOp = func(op any) ([]byte, error) { return cbor.Marshal(op.(O)) }
				s.decodeOp = func(data []byte) (any, error) {
					var op O
					if err := cbor.Unmarshal(data, &op); err != nil {
						return nil, err
					}
					return op, nil
				}
			}

			return s
		},
	}
}
