package txbuild

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/movekit-lab/movekit/types"
)

// InputKind selects how AddInput interprets a call argument
const (
	InputObject = "object"
	InputPure   = "pure"
)

// BlockData owns the mutable transaction state during assembly. It is
// not safe for concurrent use.
type BlockData struct {
	state *types.TransactionState
}

// NewBlockData creates a builder over an empty state
func NewBlockData() *BlockData {
	return &BlockData{state: types.NewTransactionState()}
}

// FromState wraps an existing state without copying it. Intent
// resolvers use this to splice commands with index fixup.
func FromState(state *types.TransactionState) *BlockData {
	return &BlockData{state: state}
}

// Restore parses a v1 or v2 JSON snapshot, validates it, and migrates
// legacy states to the current shape
func Restore(raw []byte) (*BlockData, error) {
	var probe struct {
		Version int `json:"version"`
	}

	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrDeserialization, err)
	}

	switch probe.Version {
	case types.StateVersionV1:
		v1 := &types.StateV1{}
		if err := json.Unmarshal(raw, v1); err != nil {
			return nil, fmt.Errorf("%w: %s", types.ErrDeserialization, err)
		}

		state, err := types.UpgradeState(v1)
		if err != nil {
			return nil, err
		}

		return &BlockData{state: state}, nil
	case types.StateVersion:
		state := &types.TransactionState{}
		if err := json.Unmarshal(raw, state); err != nil {
			return nil, fmt.Errorf("%w: %s", types.ErrDeserialization, err)
		}

		if state.Inputs == nil {
			state.Inputs = []types.CallArg{}
		}

		if state.Commands == nil {
			state.Commands = []types.Command{}
		}

		if err := state.Validate(); err != nil {
			return nil, err
		}

		return &BlockData{state: state}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported state version %d", types.ErrDeserialization, probe.Version)
	}
}

// FromBytes reconstructs a builder from full serialized transaction
// data: sender, gas and expiration come along
func FromBytes(data []byte) (*BlockData, error) {
	decoded, err := types.DecodeTransactionData(data)
	if err != nil {
		return nil, err
	}

	state := decoded.State()
	if err := state.Validate(); err != nil {
		return nil, err
	}

	return &BlockData{state: state}, nil
}

// FromKindBytes reconstructs a builder from a serialized transaction
// kind: inputs and commands only
func FromKindBytes(data []byte) (*BlockData, error) {
	inputs, commands, err := types.DecodeTransactionKind(data)
	if err != nil {
		return nil, err
	}

	state := types.NewTransactionState()
	state.Inputs = inputs
	state.Commands = commands

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return &BlockData{state: state}, nil
}

// State exposes the owned state for in-place mutation by the
// resolution pipeline
func (b *BlockData) State() *types.TransactionState {
	return b.state
}

// AddInput appends a call argument and returns the Input argument
// bound to its position
func (b *BlockData) AddInput(kind string, arg types.CallArg) types.Argument {
	if kind == InputPure && arg.Kind == types.CallArgRawValue && arg.RawValue.Type == "" {
		arg.RawValue.Type = types.RawValuePure
	}

	index := uint16(len(b.state.Inputs))
	b.state.Inputs = append(b.state.Inputs, arg)

	return types.InputArgument(index)
}

// AddCommand appends a command and returns its index
func (b *BlockData) AddCommand(cmd types.Command) uint16 {
	index := uint16(len(b.state.Commands))
	b.state.Commands = append(b.state.Commands, cmd)

	return index
}

// Snapshot returns a deep validated copy of the state
func (b *BlockData) Snapshot() (*types.TransactionState, error) {
	return b.state.Clone()
}

// MapArguments applies fn to every argument slot of every command
func (b *BlockData) MapArguments(fn func(types.Argument) types.Argument) error {
	return b.state.MapArguments(fn)
}

// ReplaceCommand substitutes command index with one or more commands.
// Back-references past the splice point shift by the growth amount;
// references to the replaced index stay bound to the first inserted
// command, and earlier references are untouched.
func (b *BlockData) ReplaceCommand(index int, replacement ...types.Command) error {
	if index < 0 || index >= len(b.state.Commands) {
		return fmt.Errorf("command index %d out of range", index)
	}

	if len(replacement) == 0 {
		return fmt.Errorf("empty replacement for command %d", index)
	}

	shift := len(replacement) - 1

	if shift != 0 {
		shiftRef := func(ref uint16) uint16 {
			if int(ref) > index {
				return uint16(int(ref) + shift)
			}

			return ref
		}

		err := b.state.MapArguments(func(arg types.Argument) types.Argument {
			switch arg.Kind {
			case types.ArgumentResult:
				arg.Result = shiftRef(arg.Result)
			case types.ArgumentNestedResult:
				arg.NestedResult.Index = shiftRef(arg.NestedResult.Index)
			case types.ArgumentIntentResult:
				arg.IntentResult = shiftRef(arg.IntentResult)
			case types.ArgumentNestedIntentResult:
				arg.NestedIntentResult.Index = shiftRef(arg.NestedIntentResult.Index)
			}

			return arg
		})
		if err != nil {
			return err
		}
	}

	commands := make([]types.Command, 0, len(b.state.Commands)+shift)
	commands = append(commands, b.state.Commands[:index]...)
	commands = append(commands, replacement...)
	commands = append(commands, b.state.Commands[index+1:]...)

	b.state.Commands = commands

	return nil
}

// BuildOverrides replace state fields at serialization time without
// mutating the state
type BuildOverrides struct {
	Sender     *types.Address
	Expiration *types.Expiration
	GasBudget  *uint64
	GasPrice   *uint64
	GasOwner   *types.Address
	// GasPayment non-nil replaces the payment list; an empty non-nil
	// slice is a deliberately empty payment
	GasPayment []types.ObjectRef
}

// BuildOptions configure serialization
type BuildOptions struct {
	// MaxSizeBytes bounds the serialized size; zero disables the check
	MaxSizeBytes int
	// OnlyTransactionKind serializes the bare kind payload, without
	// sender or gas
	OnlyTransactionKind bool
	Overrides           *BuildOverrides
}

// Build serializes the state to canonical bytes. A full build requires
// sender and a complete gas configuration.
func (b *BlockData) Build(opts *BuildOptions) ([]byte, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	if opts.OnlyTransactionKind {
		encoded, err := types.EncodeTransactionKind(b.state.Inputs, b.state.Commands)
		if err != nil {
			return nil, err
		}

		return checkSize(encoded, opts.MaxSizeBytes)
	}

	data, err := b.resolvedData(opts.Overrides)
	if err != nil {
		return nil, err
	}

	encoded, err := data.MarshalBCS()
	if err != nil {
		return nil, err
	}

	return checkSize(encoded, opts.MaxSizeBytes)
}

// resolvedData assembles the fully bound TransactionData, applying
// overrides over the state
func (b *BlockData) resolvedData(overrides *BuildOverrides) (*types.TransactionData, error) {
	if overrides == nil {
		overrides = &BuildOverrides{}
	}

	data := &types.TransactionData{
		Expiration: types.Expiration{Kind: types.ExpirationNone},
		Inputs:     b.state.Inputs,
		Commands:   b.state.Commands,
	}

	switch {
	case overrides.Sender != nil:
		data.Sender = *overrides.Sender
	case b.state.Sender != nil:
		data.Sender = *b.state.Sender
	default:
		return nil, ErrMissingSender
	}

	switch {
	case overrides.GasBudget != nil:
		data.GasBudget = *overrides.GasBudget
	case b.state.GasData.Budget != nil:
		data.GasBudget = uint64(*b.state.GasData.Budget)
	default:
		return nil, ErrMissingGasBudget
	}

	switch {
	case overrides.GasPayment != nil:
		data.GasPayment = overrides.GasPayment
	case b.state.GasData.Payment != nil:
		data.GasPayment = b.state.GasData.Payment
	default:
		return nil, ErrMissingGasPayment
	}

	switch {
	case overrides.GasPrice != nil:
		data.GasPrice = *overrides.GasPrice
	case b.state.GasData.Price != nil:
		data.GasPrice = uint64(*b.state.GasData.Price)
	default:
		return nil, ErrMissingGasPrice
	}

	switch {
	case overrides.GasOwner != nil:
		data.GasOwner = *overrides.GasOwner
	case b.state.GasData.Owner != nil:
		data.GasOwner = *b.state.GasData.Owner
	default:
		data.GasOwner = data.Sender
	}

	switch {
	case overrides.Expiration != nil:
		data.Expiration = *overrides.Expiration
	case b.state.Expiration != nil:
		data.Expiration = *b.state.Expiration
	}

	return data, nil
}

func checkSize(encoded []byte, max int) ([]byte, error) {
	if max > 0 && len(encoded) > max {
		return nil, &TxTooLargeError{Size: len(encoded), Max: max}
	}

	return encoded, nil
}

// Digest builds the full transaction and derives its digest string
func (b *BlockData) Digest() (string, error) {
	encoded, err := b.Build(&BuildOptions{})
	if err != nil {
		return "", err
	}

	return types.TransactionDigest(encoded), nil
}
