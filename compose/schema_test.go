package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pluto/lattice/compose"
	"github.com/go-pluto/lattice/crdt"
)

// Functions

// testSchema declares the counter-plus-set aggregate most tests of this
// package run against.
func testSchema(t *testing.T) *compose.Schema[string] {

	schema, err := compose.NewSchema[string](
		compose.Field[crdt.Dot[string]]("c", crdt.NewGCounter[string]),
		compose.Field[crdt.GSetOp[string]]("s", crdt.NewGSet[string]),
	)
	require.NoError(t, err)

	return schema
}

// TestNewSchemaRejectsBadFieldLists checks the composition-time errors.
func TestNewSchemaRejectsBadFieldLists(t *testing.T) {

	_, err := compose.NewSchema[string]()
	assert.Error(t, err, "a schema without fields must be rejected")

	_, err = compose.NewSchema[string](
		compose.Field[crdt.Dot[string]]("", crdt.NewGCounter[string]),
	)
	assert.Error(t, err, "an empty field name must be rejected")

	_, err = compose.NewSchema[string](
		compose.Field[crdt.Dot[string]]("c", crdt.NewGCounter[string]),
		compose.Field[crdt.GSetOp[string]]("c", crdt.NewGSet[string]),
	)
	assert.Error(t, err, "a duplicate field name must be rejected")
}

// TestSchemaOrderIsDeclarationOrder checks that field order is the
// declared order, independent of name.
func TestSchemaOrderIsDeclarationOrder(t *testing.T) {

	schema, err := compose.NewSchema[string](
		compose.Field[crdt.GSetOp[string]]("zeta", crdt.NewGSet[string]),
		compose.Field[crdt.Dot[string]]("alpha", crdt.NewGCounter[string]),
		compose.Field[crdt.GSetOp[int]]("mu", crdt.NewGSet[int]),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mu"}, schema.Names())
	assert.Equal(t, 3, schema.Len())
	assert.Equal(t, schema.Names(), schema.New().Names())
}

// TestSchemaNewSynthesizesIndependentReplicas checks that replicas of
// one schema never share field state.
func TestSchemaNewSynthesizesIndependentReplicas(t *testing.T) {

	schema := testSchema(t)

	r1 := schema.New()
	r2 := schema.New()

	c1, err := compose.Value[*crdt.GCounter[string]](r1, "c")
	require.NoError(t, err)

	op, err := r1.NewOp(r1.NextDot("A"), map[string]any{"c": c1.Inc("A")})
	require.NoError(t, err)
	r1.Apply(op)

	c2, err := compose.Value[*crdt.GCounter[string]](r2, "c")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), c1.Read())
	assert.Equal(t, uint64(0), c2.Read(), "sibling replica must stay untouched")
	assert.Equal(t, uint64(0), r2.Clock().Get("A"))
}
