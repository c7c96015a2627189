package compose

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/go-pluto/lattice/crdt"
)

// Structs

// wireFieldOp is the wire form of one field entry: the field's declared
// name and its operation, serialized by the field's own codec.
type wireFieldOp struct {
	Name string `cbor:"name"`
	Op   []byte `cbor:"op"`
}

// wireOp is the wire form of an aggregate operation: the dot plus the
// present field entries in declared order. Absent fields do not appear;
// absence means untouched.
type wireOp[A comparable] struct {
	Actor   A             `cbor:"actor"`
	Counter uint64        `cbor:"counter"`
	Fields  []wireFieldOp `cbor:"fields,omitempty"`
}

// Functions

// EncodeOp serializes op for broadcast. Field entries keep their order
// and each is encoded by its field's codec, so operations of nested
// aggregates travel through the nested aggregate's own wire form.
func (a *Aggregate[A]) EncodeOp(op Op[A]) ([]byte, error) {
	w := wireOp[A]{Actor: op.Dot.Actor, Counter: op.Dot.Counter}

	for _, f := range op.FieldOps {
		if f.Op == nil {
			continue
		}

		i, ok := a.schema.index[f.Name]
		if !ok {
			return nil, errors.Errorf("encode: schema declares no field %q", f.Name)
		}

		data, err := a.slots[i].encodeOp(f.Op)
		if err != nil {
			return nil, errors.Wrapf(err, "encode op entry for field %q", f.Name)
		}

		w.Fields = append(w.Fields, wireFieldOp{Name: f.Name, Op: data})
	}

	data, err := cbor.Marshal(w)
	if err != nil {
		return nil, errors.Wrap(err, "encode aggregate op")
	}

	return data, nil
}

// DecodeOp deserializes an operation received from a peer replica built
// on the same schema. Entry order is preserved; entries for fields the
// schema does not declare fail the decode.
func (a *Aggregate[A]) DecodeOp(data []byte) (Op[A], error) {
	var w wireOp[A]
	if err := cbor.Unmarshal(data, &w); err != nil {
		return Op[A]{}, errors.Wrap(err, "decode aggregate op")
	}

	op := Op[A]{Dot: crdt.Dot[A]{Actor: w.Actor, Counter: w.Counter}}

	for _, f := range w.Fields {
		i, ok := a.schema.index[f.Name]
		if !ok {
			return Op[A]{}, errors.Errorf("decode: schema declares no field %q", f.Name)
		}

		fieldOp, err := a.slots[i].decodeOp(f.Op)
		if err != nil {
			return Op[A]{}, errors.Wrapf(err, "decode op entry for field %q", f.Name)
		}

		op.FieldOps = append(op.FieldOps, FieldOp{Name: f.Name, Op: fieldOp})
	}

	return op, nil
}
