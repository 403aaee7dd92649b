package transaction

import (
	"github.com/fardream/go-bcs/bcs"

	"github.com/movekit-lab/movekit/types"
)

// Typed pure helpers: each serializes its value immediately and
// registers a Pure input.

func (tx *Transaction) PureBool(v bool) types.Argument {
	return tx.PureBytes(bcs.MustMarshal(v))
}

func (tx *Transaction) PureU8(v uint8) types.Argument {
	return tx.PureBytes(bcs.MustMarshal(v))
}

func (tx *Transaction) PureU16(v uint16) types.Argument {
	return tx.PureBytes(bcs.MustMarshal(v))
}

func (tx *Transaction) PureU32(v uint32) types.Argument {
	return tx.PureBytes(bcs.MustMarshal(v))
}

func (tx *Transaction) PureU64(v uint64) types.Argument {
	return tx.PureBytes(bcs.MustMarshal(v))
}

// PureU128 serializes a decimal string as a u128
func (tx *Transaction) PureU128(v string) (types.Argument, error) {
	encoded, err := (&types.PureSchema{Primitive: types.PureU128}).Serialize(v)
	if err != nil {
		return types.Argument{}, err
	}

	return tx.PureBytes(encoded), nil
}

// PureU256 serializes a decimal string as a u256
func (tx *Transaction) PureU256(v string) (types.Argument, error) {
	encoded, err := (&types.PureSchema{Primitive: types.PureU256}).Serialize(v)
	if err != nil {
		return types.Argument{}, err
	}

	return tx.PureBytes(encoded), nil
}

func (tx *Transaction) PureString(v string) types.Argument {
	return tx.PureBytes(bcs.MustMarshal(v))
}

// PureAddress serializes an address string
func (tx *Transaction) PureAddress(v string) (types.Argument, error) {
	addr, err := types.StringToAddress(v)
	if err != nil {
		return types.Argument{}, err
	}

	return tx.PureBytes(addr.Bytes()), nil
}
