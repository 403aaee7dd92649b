package types

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/fardream/go-bcs/bcs"
)

// Pure primitive names
const (
	PureBool    = "bool"
	PureU8      = "u8"
	PureU16     = "u16"
	PureU32     = "u32"
	PureU64     = "u64"
	PureU128    = "u128"
	PureU256    = "u256"
	PureAddress = "address"
	PureString  = "string"
	PureID      = "id"
)

// PureSchemaOf reduces a type signature body to a pure serialization
// schema when it has one: primitives, strings, ids, and vectors or
// options of such. Returns ok=false for every other shape.
func PureSchemaOf(body *OpenMoveTypeSignatureBody) (*PureSchema, bool) {
	switch {
	case body.Primitive != "":
		switch body.Primitive {
		case PureBool, PureU8, PureU16, PureU32, PureU64, PureU128, PureU256, PureAddress:
			return &PureSchema{Primitive: body.Primitive}, true
		}

		return nil, false
	case body.Vector != nil:
		inner, ok := PureSchemaOf(body.Vector)
		if !ok {
			return nil, false
		}

		return &PureSchema{Vector: inner}, true
	case body.Datatype != nil:
		dt := body.Datatype

		if EqualAddressStrings(dt.Package, "0x1") &&
			(dt.Module == "string" || dt.Module == "ascii") && dt.Type == "String" {
			return &PureSchema{Primitive: PureString}, true
		}

		if EqualAddressStrings(dt.Package, "0x2") && dt.Module == "object" && dt.Type == "ID" {
			return &PureSchema{Primitive: PureAddress}, true
		}

		if EqualAddressStrings(dt.Package, "0x1") && dt.Module == "option" && dt.Type == "Option" &&
			len(dt.TypeParameters) == 1 {
			inner, ok := PureSchemaOf(&dt.TypeParameters[0])
			if !ok {
				return nil, false
			}

			return &PureSchema{Option: inner}, true
		}

		return nil, false
	default:
		return nil, false
	}
}

// PureSchema is the serialization plan of a pure value: a primitive,
// a vector of a schema, or an option of a schema
type PureSchema struct {
	Primitive string
	Vector    *PureSchema
	Option    *PureSchema
}

// U64Schema serializes plain u64 amounts
func U64Schema() *PureSchema {
	return &PureSchema{Primitive: PureU64}
}

// AddressSchema serializes recipient addresses
func AddressSchema() *PureSchema {
	return &PureSchema{Primitive: PureAddress}
}

// Serialize encodes a raw, JSON-shaped value under the schema
func (s *PureSchema) Serialize(value interface{}) ([]byte, error) {
	switch {
	case s.Option != nil:
		if value == nil {
			return []byte{0}, nil
		}

		inner, err := s.Option.Serialize(value)
		if err != nil {
			return nil, err
		}

		return append([]byte{1}, inner...), nil
	case s.Vector != nil:
		items, ok := value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected a list for vector schema, got %T", value)
		}

		out := bcs.ULEB128Encode(len(items))

		for i, item := range items {
			encoded, err := s.Vector.Serialize(item)
			if err != nil {
				return nil, fmt.Errorf("vector[%d]: %w", i, err)
			}

			out = append(out, encoded...)
		}

		return out, nil
	default:
		return serializePurePrimitive(s.Primitive, value)
	}
}

func serializePurePrimitive(primitive string, value interface{}) ([]byte, error) {
	switch primitive {
	case PureBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", value)
		}

		return bcs.Marshal(b)
	case PureU8:
		v, err := coerceUint(value, 8)
		if err != nil {
			return nil, err
		}

		return bcs.Marshal(uint8(v))
	case PureU16:
		v, err := coerceUint(value, 16)
		if err != nil {
			return nil, err
		}

		return bcs.Marshal(uint16(v))
	case PureU32:
		v, err := coerceUint(value, 32)
		if err != nil {
			return nil, err
		}

		return bcs.Marshal(uint32(v))
	case PureU64:
		v, err := coerceUint(value, 64)
		if err != nil {
			return nil, err
		}

		return bcs.Marshal(v)
	case PureU128:
		return serializeBigUint(value, 16)
	case PureU256:
		return serializeBigUint(value, 32)
	case PureAddress, PureID:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected address string, got %T", value)
		}

		addr, err := StringToAddress(str)
		if err != nil {
			return nil, err
		}

		return addr.Bytes(), nil
	case PureString:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}

		return bcs.Marshal(str)
	default:
		return nil, fmt.Errorf("unknown pure primitive %q", primitive)
	}
}

// coerceUint accepts the integer spellings a JSON-shaped value may
// arrive in: Go integers, exact floats, and decimal strings
func coerceUint(value interface{}, bits int) (uint64, error) {
	var (
		v   uint64
		err error
	)

	switch n := value.(type) {
	case uint64:
		v = n
	case uint:
		v = uint64(n)
	case uint16:
		v = uint64(n)
	case uint32:
		v = uint64(n)
	case uint8:
		v = uint64(n)
	case int:
		if n < 0 {
			return 0, fmt.Errorf("negative value %d for u%d", n, bits)
		}

		v = uint64(n)
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("negative value %d for u%d", n, bits)
		}

		v = uint64(n)
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, fmt.Errorf("value %v is not a u%d", n, bits)
		}

		v = uint64(n)
	case string:
		if v, err = strconv.ParseUint(n, 10, 64); err != nil {
			return 0, fmt.Errorf("invalid u%d string %q: %w", bits, n, err)
		}
	default:
		return 0, fmt.Errorf("expected a u%d, got %T", bits, value)
	}

	if bits < 64 && v >= 1<<uint(bits) {
		return 0, fmt.Errorf("value %d overflows u%d", v, bits)
	}

	return v, nil
}

// serializeBigUint writes a u128 or u256 value little-endian at the
// given byte width
func serializeBigUint(value interface{}, width int) ([]byte, error) {
	n := new(big.Int)

	switch v := value.(type) {
	case string:
		if _, ok := n.SetString(v, 10); !ok {
			return nil, fmt.Errorf("invalid integer string %q", v)
		}
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return nil, fmt.Errorf("value %v is not an unsigned integer", v)
		}

		n.SetUint64(uint64(v))
	case uint64:
		n.SetUint64(v)
	case int:
		if v < 0 {
			return nil, fmt.Errorf("negative value %d", v)
		}

		n.SetInt64(int64(v))
	case *big.Int:
		n.Set(v)
	default:
		return nil, fmt.Errorf("expected an unsigned integer, got %T", value)
	}

	if n.Sign() < 0 || n.BitLen() > width*8 {
		return nil, fmt.Errorf("value %s does not fit in %d bytes", n.String(), width)
	}

	be := n.Bytes()
	out := make([]byte, width)

	for i := range be {
		out[i] = be[len(be)-1-i]
	}

	return out, nil
}
