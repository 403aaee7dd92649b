package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// DecodeTransactionData parses a full TransactionData envelope
func DecodeTransactionData(data []byte) (*TransactionData, error) {
	r := newBCSReader(data)

	variant, err := r.uleb()
	if err != nil {
		return nil, err
	}

	if variant != bcsTransactionDataV1 {
		return nil, fmt.Errorf("%w: unknown transaction data variant %d", ErrDeserialization, variant)
	}

	d := &TransactionData{}

	if d.Sender, err = r.address(); err != nil {
		return nil, err
	}

	if d.Expiration, err = decodeExpiration(r); err != nil {
		return nil, err
	}

	paymentCount, err := r.uleb()
	if err != nil {
		return nil, err
	}

	d.GasPayment = make([]ObjectRef, paymentCount)

	for i := 0; i < paymentCount; i++ {
		if d.GasPayment[i], err = decodeObjectRef(r); err != nil {
			return nil, err
		}
	}

	if d.GasOwner, err = r.address(); err != nil {
		return nil, err
	}

	if d.GasPrice, err = r.u64(); err != nil {
		return nil, err
	}

	if d.GasBudget, err = r.u64(); err != nil {
		return nil, err
	}

	if d.Inputs, d.Commands, err = decodeTransactionKind(r); err != nil {
		return nil, err
	}

	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrDeserialization, r.remaining())
	}

	return d, nil
}

// DecodeTransactionKind parses a bare programmable-transaction payload
func DecodeTransactionKind(data []byte) ([]CallArg, []Command, error) {
	r := newBCSReader(data)

	inputs, commands, err := decodeTransactionKind(r)
	if err != nil {
		return nil, nil, err
	}

	if r.remaining() != 0 {
		return nil, nil, fmt.Errorf("%w: %d trailing bytes", ErrDeserialization, r.remaining())
	}

	return inputs, commands, nil
}

func decodeTransactionKind(r *bcsReader) ([]CallArg, []Command, error) {
	variant, err := r.uleb()
	if err != nil {
		return nil, nil, err
	}

	if variant != bcsKindProgrammable {
		return nil, nil, fmt.Errorf("%w: unknown transaction kind variant %d", ErrDeserialization, variant)
	}

	inputCount, err := r.uleb()
	if err != nil {
		return nil, nil, err
	}

	inputs := make([]CallArg, inputCount)

	for i := 0; i < inputCount; i++ {
		if inputs[i], err = decodeCallArg(r); err != nil {
			return nil, nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}
	}

	commandCount, err := r.uleb()
	if err != nil {
		return nil, nil, err
	}

	commands := make([]Command, commandCount)

	for i := 0; i < commandCount; i++ {
		if commands[i], err = decodeCommand(r); err != nil {
			return nil, nil, fmt.Errorf("commands[%d]: %w", i, err)
		}
	}

	return inputs, commands, nil
}

func decodeExpiration(r *bcsReader) (Expiration, error) {
	variant, err := r.uleb()
	if err != nil {
		return Expiration{}, err
	}

	switch variant {
	case bcsExpirationNone:
		return Expiration{Kind: ExpirationNone}, nil
	case bcsExpirationEpoch:
		epoch, err := r.u64()
		if err != nil {
			return Expiration{}, err
		}

		return Expiration{Kind: ExpirationEpoch, Epoch: epoch}, nil
	default:
		return Expiration{}, fmt.Errorf("%w: unknown expiration variant %d", ErrDeserialization, variant)
	}
}

func decodeObjectRef(r *bcsReader) (ObjectRef, error) {
	id, err := r.address()
	if err != nil {
		return ObjectRef{}, err
	}

	version, err := r.u64()
	if err != nil {
		return ObjectRef{}, err
	}

	digest, err := r.vecBytes()
	if err != nil {
		return ObjectRef{}, err
	}

	if len(digest) != ObjectDigestLength {
		return ObjectRef{}, fmt.Errorf("%w: object digest is %d bytes, want %d",
			ErrDeserialization, len(digest), ObjectDigestLength)
	}

	return ObjectRef{
		ObjectID: id,
		Version:  Uint64String(version),
		Digest:   base58.Encode(digest),
	}, nil
}

func decodeCallArg(r *bcsReader) (CallArg, error) {
	variant, err := r.uleb()
	if err != nil {
		return CallArg{}, err
	}

	switch variant {
	case bcsCallArgPure:
		bytes, err := r.vecBytes()
		if err != nil {
			return CallArg{}, err
		}

		return PureCallArg(bytes), nil
	case bcsCallArgObject:
		arg, err := decodeObjectArg(r)
		if err != nil {
			return CallArg{}, err
		}

		return ObjectCallArg(arg), nil
	default:
		return CallArg{}, fmt.Errorf("%w: unknown call arg variant %d", ErrDeserialization, variant)
	}
}

func decodeObjectArg(r *bcsReader) (ObjectArg, error) {
	variant, err := r.uleb()
	if err != nil {
		return ObjectArg{}, err
	}

	switch variant {
	case bcsObjectArgImmOrOwned:
		ref, err := decodeObjectRef(r)
		if err != nil {
			return ObjectArg{}, err
		}

		return ObjectArg{Kind: ObjectArgImmOrOwned, ImmOrOwnedObject: &ref}, nil
	case bcsObjectArgShared:
		id, err := r.address()
		if err != nil {
			return ObjectArg{}, err
		}

		version, err := r.u64()
		if err != nil {
			return ObjectArg{}, err
		}

		mutable, err := r.boolean()
		if err != nil {
			return ObjectArg{}, err
		}

		return ObjectArg{
			Kind: ObjectArgShared,
			SharedObject: &SharedObjectRef{
				ObjectID:             id,
				InitialSharedVersion: version,
				Mutable:              mutable,
			},
		}, nil
	case bcsObjectArgReceiving:
		ref, err := decodeObjectRef(r)
		if err != nil {
			return ObjectArg{}, err
		}

		return ObjectArg{Kind: ObjectArgReceiving, Receiving: &ref}, nil
	default:
		return ObjectArg{}, fmt.Errorf("%w: unknown object arg variant %d", ErrDeserialization, variant)
	}
}

func decodeArgument(r *bcsReader) (Argument, error) {
	variant, err := r.uleb()
	if err != nil {
		return Argument{}, err
	}

	switch variant {
	case bcsArgumentGasCoin:
		return GasCoinArgument(), nil
	case bcsArgumentInput:
		index, err := r.u16()
		if err != nil {
			return Argument{}, err
		}

		return InputArgument(index), nil
	case bcsArgumentResult:
		index, err := r.u16()
		if err != nil {
			return Argument{}, err
		}

		return ResultArgument(index), nil
	case bcsArgumentNestedResult:
		index, err := r.u16()
		if err != nil {
			return Argument{}, err
		}

		resultIndex, err := r.u16()
		if err != nil {
			return Argument{}, err
		}

		return NestedResultArgument(index, resultIndex), nil
	default:
		return Argument{}, fmt.Errorf("%w: unknown argument variant %d", ErrDeserialization, variant)
	}
}

func decodeArguments(r *bcsReader) ([]Argument, error) {
	count, err := r.uleb()
	if err != nil {
		return nil, err
	}

	args := make([]Argument, count)

	for i := 0; i < count; i++ {
		if args[i], err = decodeArgument(r); err != nil {
			return nil, err
		}
	}

	return args, nil
}

func decodeCommand(r *bcsReader) (Command, error) {
	variant, err := r.uleb()
	if err != nil {
		return Command{}, err
	}

	switch variant {
	case bcsCommandMoveCall:
		call := ProgrammableMoveCall{}

		if call.Package, err = r.address(); err != nil {
			return Command{}, err
		}

		if call.Module, err = r.str(); err != nil {
			return Command{}, err
		}

		if call.Function, err = r.str(); err != nil {
			return Command{}, err
		}

		tagCount, err := r.uleb()
		if err != nil {
			return Command{}, err
		}

		call.TypeArguments = make([]TypeTag, tagCount)

		for i := 0; i < tagCount; i++ {
			if call.TypeArguments[i], err = decodeTypeTag(r); err != nil {
				return Command{}, err
			}
		}

		if call.Arguments, err = decodeArguments(r); err != nil {
			return Command{}, err
		}

		return MoveCallCommand(call), nil
	case bcsCommandTransferObjects:
		objects, err := decodeArguments(r)
		if err != nil {
			return Command{}, err
		}

		recipient, err := decodeArgument(r)
		if err != nil {
			return Command{}, err
		}

		return TransferObjectsCommandOf(objects, recipient), nil
	case bcsCommandSplitCoins:
		coin, err := decodeArgument(r)
		if err != nil {
			return Command{}, err
		}

		amounts, err := decodeArguments(r)
		if err != nil {
			return Command{}, err
		}

		return SplitCoinsCommandOf(coin, amounts), nil
	case bcsCommandMergeCoins:
		destination, err := decodeArgument(r)
		if err != nil {
			return Command{}, err
		}

		sources, err := decodeArguments(r)
		if err != nil {
			return Command{}, err
		}

		return MergeCoinsCommandOf(destination, sources), nil
	case bcsCommandMakeMoveVec:
		hasType, err := r.boolean()
		if err != nil {
			return Command{}, err
		}

		var typ *TypeTag

		if hasType {
			tag, err := decodeTypeTag(r)
			if err != nil {
				return Command{}, err
			}

			typ = &tag
		}

		elements, err := decodeArguments(r)
		if err != nil {
			return Command{}, err
		}

		return MakeMoveVecCommandOf(typ, elements), nil
	case bcsCommandPublish:
		modules, err := decodeModules(r)
		if err != nil {
			return Command{}, err
		}

		deps, err := decodeAddresses(r)
		if err != nil {
			return Command{}, err
		}

		return PublishCommandOf(modules, deps), nil
	case bcsCommandUpgrade:
		modules, err := decodeModules(r)
		if err != nil {
			return Command{}, err
		}

		deps, err := decodeAddresses(r)
		if err != nil {
			return Command{}, err
		}

		pkg, err := r.address()
		if err != nil {
			return Command{}, err
		}

		ticket, err := decodeArgument(r)
		if err != nil {
			return Command{}, err
		}

		return UpgradeCommandOf(modules, deps, pkg, ticket), nil
	default:
		return Command{}, fmt.Errorf("%w: unknown command variant %d", ErrDeserialization, variant)
	}
}

func decodeModules(r *bcsReader) ([][]byte, error) {
	count, err := r.uleb()
	if err != nil {
		return nil, err
	}

	modules := make([][]byte, count)

	for i := 0; i < count; i++ {
		if modules[i], err = r.vecBytes(); err != nil {
			return nil, err
		}
	}

	return modules, nil
}

func decodeAddresses(r *bcsReader) ([]Address, error) {
	count, err := r.uleb()
	if err != nil {
		return nil, err
	}

	addrs := make([]Address, count)

	for i := 0; i < count; i++ {
		if addrs[i], err = r.address(); err != nil {
			return nil, err
		}
	}

	return addrs, nil
}

func decodeTypeTag(r *bcsReader) (TypeTag, error) {
	variant, err := r.uleb()
	if err != nil {
		return TypeTag{}, err
	}

	switch variant {
	case bcsTypeTagBool:
		return TypeTag{Kind: TypeTagBool}, nil
	case bcsTypeTagU8:
		return TypeTag{Kind: TypeTagU8}, nil
	case bcsTypeTagU16:
		return TypeTag{Kind: TypeTagU16}, nil
	case bcsTypeTagU32:
		return TypeTag{Kind: TypeTagU32}, nil
	case bcsTypeTagU64:
		return TypeTag{Kind: TypeTagU64}, nil
	case bcsTypeTagU128:
		return TypeTag{Kind: TypeTagU128}, nil
	case bcsTypeTagU256:
		return TypeTag{Kind: TypeTagU256}, nil
	case bcsTypeTagAddress:
		return TypeTag{Kind: TypeTagAddress}, nil
	case bcsTypeTagSigner:
		return TypeTag{Kind: TypeTagSigner}, nil
	case bcsTypeTagVector:
		elem, err := decodeTypeTag(r)
		if err != nil {
			return TypeTag{}, err
		}

		return TypeTag{Kind: TypeTagVector, Vector: &elem}, nil
	case bcsTypeTagStruct:
		st := StructTag{}

		if st.Address, err = r.address(); err != nil {
			return TypeTag{}, err
		}

		if st.Module, err = r.str(); err != nil {
			return TypeTag{}, err
		}

		if st.Name, err = r.str(); err != nil {
			return TypeTag{}, err
		}

		paramCount, err := r.uleb()
		if err != nil {
			return TypeTag{}, err
		}

		if paramCount > 0 {
			st.TypeParams = make([]TypeTag, paramCount)

			for i := 0; i < paramCount; i++ {
				if st.TypeParams[i], err = decodeTypeTag(r); err != nil {
					return TypeTag{}, err
				}
			}
		}

		return TypeTag{Kind: TypeTagStruct, Struct: &st}, nil
	default:
		return TypeTag{}, fmt.Errorf("%w: unknown type tag variant %d", ErrDeserialization, variant)
	}
}
