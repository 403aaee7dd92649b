package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorOf(inner PureSchema) *PureSchema {
	return &PureSchema{Vector: &inner}
}

func TestPureSchemaSerialize(t *testing.T) {
	addr := MustAddress("0x2")

	cases := []struct {
		name     string
		schema   *PureSchema
		value    interface{}
		expected []byte
		fails    bool
	}{
		{
			name:     "u64 from number",
			schema:   U64Schema(),
			value:    float64(42),
			expected: []byte{42, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "u64 from string",
			schema:   U64Schema(),
			value:    "42",
			expected: []byte{42, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "u8",
			schema:   &PureSchema{Primitive: PureU8},
			value:    uint64(7),
			expected: []byte{7},
		},
		{
			name:   "u8 overflow",
			schema: &PureSchema{Primitive: PureU8},
			value:  uint64(300),
			fails:  true,
		},
		{
			name:     "bool",
			schema:   &PureSchema{Primitive: PureBool},
			value:    true,
			expected: []byte{1},
		},
		{
			name:     "address",
			schema:   AddressSchema(),
			value:    "0x2",
			expected: addr.Bytes(),
		},
		{
			name:     "string",
			schema:   &PureSchema{Primitive: PureString},
			value:    "hi",
			expected: []byte{2, 'h', 'i'},
		},
		{
			name:     "vector of u8",
			schema:   vectorOf(PureSchema{Primitive: PureU8}),
			value:    []interface{}{float64(1), float64(2)},
			expected: []byte{2, 1, 2},
		},
		{
			name:     "option none",
			schema:   &PureSchema{Option: U64Schema()},
			value:    nil,
			expected: []byte{0},
		},
		{
			name:     "option some",
			schema:   &PureSchema{Option: U64Schema()},
			value:    float64(1),
			expected: []byte{1, 1, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "u128 little endian",
			schema:   &PureSchema{Primitive: PureU128},
			value:    "256",
			expected: append([]byte{0, 1}, make([]byte, 14)...),
		},
		{
			name:   "negative",
			schema: U64Schema(),
			value:  float64(-1),
			fails:  true,
		},
		{
			name:   "fractional",
			schema: U64Schema(),
			value:  float64(1.5),
			fails:  true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := c.schema.Serialize(c.value)

			if c.fails {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, c.expected, out)
		})
	}
}

func TestPureSchemaOf(t *testing.T) {
	typeParam := 0

	cases := []struct {
		name string
		body OpenMoveTypeSignatureBody
		pure bool
	}{
		{name: "u64", body: OpenMoveTypeSignatureBody{Primitive: "u64"}, pure: true},
		{name: "address", body: OpenMoveTypeSignatureBody{Primitive: "address"}, pure: true},
		{
			name: "vector of bool",
			body: OpenMoveTypeSignatureBody{Vector: &OpenMoveTypeSignatureBody{Primitive: "bool"}},
			pure: true,
		},
		{
			name: "std string",
			body: OpenMoveTypeSignatureBody{Datatype: &OpenMoveDatatype{
				Package: "0x1", Module: "string", Type: "String",
			}},
			pure: true,
		},
		{
			name: "object id",
			body: OpenMoveTypeSignatureBody{Datatype: &OpenMoveDatatype{
				Package: "0x2", Module: "object", Type: "ID",
			}},
			pure: true,
		},
		{
			name: "option of u8",
			body: OpenMoveTypeSignatureBody{Datatype: &OpenMoveDatatype{
				Package: "0x1", Module: "option", Type: "Option",
				TypeParameters: []OpenMoveTypeSignatureBody{{Primitive: "u8"}},
			}},
			pure: true,
		},
		{
			name: "coin struct",
			body: OpenMoveTypeSignatureBody{Datatype: &OpenMoveDatatype{
				Package: "0x2", Module: "coin", Type: "Coin",
			}},
			pure: false,
		},
		{
			name: "type parameter",
			body: OpenMoveTypeSignatureBody{TypeParameter: &typeParam},
			pure: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := PureSchemaOf(&c.body)
			assert.Equal(t, c.pure, ok)
		})
	}
}
