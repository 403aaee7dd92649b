package types

import (
	"fmt"
)

// TransactionData is the fully resolved payload of a signable
// transaction: every gas field bound, every input in its final form
type TransactionData struct {
	Sender     Address
	Expiration Expiration
	GasPayment []ObjectRef
	GasOwner   Address
	GasPrice   uint64
	GasBudget  uint64
	Inputs     []CallArg
	Commands   []Command
}

// State rebuilds a v2 TransactionState mirroring the resolved data
func (d *TransactionData) State() *TransactionState {
	sender := d.Sender
	expiration := d.Expiration
	owner := d.GasOwner
	price := Uint64String(d.GasPrice)
	budget := Uint64String(d.GasBudget)

	return &TransactionState{
		Version:    StateVersion,
		Sender:     &sender,
		Expiration: &expiration,
		GasData: GasData{
			Budget:  &budget,
			Price:   &price,
			Owner:   &owner,
			Payment: d.GasPayment,
		},
		Inputs:   d.Inputs,
		Commands: d.Commands,
	}
}

// MarshalBCS encodes the full TransactionData envelope
func (d *TransactionData) MarshalBCS() ([]byte, error) {
	w := &bcsWriter{}

	w.uleb(bcsTransactionDataV1)
	w.fixedBytes(d.Sender.Bytes())

	if err := encodeExpiration(w, d.Expiration); err != nil {
		return nil, err
	}

	if err := encodeGasData(w, d.GasPayment, d.GasOwner, d.GasPrice, d.GasBudget); err != nil {
		return nil, err
	}

	if err := encodeTransactionKind(w, d.Inputs, d.Commands); err != nil {
		return nil, err
	}

	return w.buf.Bytes(), nil
}

// EncodeTransactionKind encodes only the programmable-transaction
// payload: inputs and commands, without sender or gas
func EncodeTransactionKind(inputs []CallArg, commands []Command) ([]byte, error) {
	w := &bcsWriter{}

	if err := encodeTransactionKind(w, inputs, commands); err != nil {
		return nil, err
	}

	return w.buf.Bytes(), nil
}

func encodeTransactionKind(w *bcsWriter, inputs []CallArg, commands []Command) error {
	w.uleb(bcsKindProgrammable)

	w.uleb(len(inputs))

	for i := range inputs {
		if err := encodeCallArg(w, &inputs[i]); err != nil {
			return fmt.Errorf("inputs[%d]: %w", i, err)
		}
	}

	w.uleb(len(commands))

	for i := range commands {
		if err := encodeCommand(w, &commands[i], len(commands)); err != nil {
			return fmt.Errorf("commands[%d]: %w", i, err)
		}
	}

	return nil
}

func encodeExpiration(w *bcsWriter, e Expiration) error {
	switch e.Kind {
	case "", ExpirationNone:
		w.uleb(bcsExpirationNone)
	case ExpirationEpoch:
		w.uleb(bcsExpirationEpoch)
		w.u64(e.Epoch)
	default:
		return fmt.Errorf("unknown expiration kind %q", e.Kind)
	}

	return nil
}

func encodeGasData(w *bcsWriter, payment []ObjectRef, owner Address, price, budget uint64) error {
	w.uleb(len(payment))

	for i := range payment {
		if err := encodeObjectRef(w, &payment[i]); err != nil {
			return fmt.Errorf("gas payment[%d]: %w", i, err)
		}
	}

	w.fixedBytes(owner.Bytes())
	w.u64(price)
	w.u64(budget)

	return nil
}

func encodeObjectRef(w *bcsWriter, ref *ObjectRef) error {
	digest, err := ref.DigestBytes()
	if err != nil {
		return err
	}

	w.fixedBytes(ref.ObjectID.Bytes())
	w.u64(uint64(ref.Version))
	w.vecBytes(digest)

	return nil
}

func encodeCallArg(w *bcsWriter, arg *CallArg) error {
	switch arg.Kind {
	case CallArgPure:
		w.uleb(bcsCallArgPure)
		w.vecBytes(arg.Pure.Bytes)
	case CallArgObject:
		w.uleb(bcsCallArgObject)

		return encodeObjectArg(w, arg.Object)
	default:
		// the transient kinds have no binary form
		return fmt.Errorf("cannot serialize call arg of kind %q", arg.Kind)
	}

	return nil
}

func encodeObjectArg(w *bcsWriter, arg *ObjectArg) error {
	switch arg.Kind {
	case ObjectArgImmOrOwned:
		w.uleb(bcsObjectArgImmOrOwned)

		return encodeObjectRef(w, arg.ImmOrOwnedObject)
	case ObjectArgShared:
		w.uleb(bcsObjectArgShared)
		w.fixedBytes(arg.SharedObject.ObjectID.Bytes())
		w.u64(arg.SharedObject.InitialSharedVersion)
		w.boolean(arg.SharedObject.Mutable)

		return nil
	case ObjectArgReceiving:
		w.uleb(bcsObjectArgReceiving)

		return encodeObjectRef(w, arg.Receiving)
	default:
		return fmt.Errorf("unknown object arg kind %q", arg.Kind)
	}
}

func encodeArgument(w *bcsWriter, arg Argument, commandCount int) error {
	switch arg.Kind {
	case ArgumentGasCoin:
		w.uleb(bcsArgumentGasCoin)
	case ArgumentInput:
		w.uleb(bcsArgumentInput)
		w.u16(arg.Input)
	case ArgumentResult:
		if int(arg.Result) >= commandCount {
			return fmt.Errorf("result reference %d out of range", arg.Result)
		}

		w.uleb(bcsArgumentResult)
		w.u16(arg.Result)
	case ArgumentNestedResult:
		if int(arg.NestedResult.Index) >= commandCount {
			return fmt.Errorf("nested result reference %d out of range", arg.NestedResult.Index)
		}

		w.uleb(bcsArgumentNestedResult)
		w.u16(arg.NestedResult.Index)
		w.u16(arg.NestedResult.ResultIndex)
	default:
		// intent results have no binary form
		return fmt.Errorf("cannot serialize argument of kind %q", arg.Kind)
	}

	return nil
}

func encodeArguments(w *bcsWriter, args []Argument, commandCount int) error {
	w.uleb(len(args))

	for i := range args {
		if err := encodeArgument(w, args[i], commandCount); err != nil {
			return err
		}
	}

	return nil
}

func encodeCommand(w *bcsWriter, cmd *Command, commandCount int) error {
	switch cmd.Kind {
	case CommandMoveCall:
		w.uleb(bcsCommandMoveCall)
		w.fixedBytes(cmd.MoveCall.Package.Bytes())
		w.str(cmd.MoveCall.Module)
		w.str(cmd.MoveCall.Function)
		w.uleb(len(cmd.MoveCall.TypeArguments))

		for i := range cmd.MoveCall.TypeArguments {
			if err := encodeTypeTag(w, &cmd.MoveCall.TypeArguments[i]); err != nil {
				return err
			}
		}

		return encodeArguments(w, cmd.MoveCall.Arguments, commandCount)
	case CommandTransferObjects:
		w.uleb(bcsCommandTransferObjects)

		if err := encodeArguments(w, cmd.TransferObjects.Objects, commandCount); err != nil {
			return err
		}

		return encodeArgument(w, cmd.TransferObjects.Recipient, commandCount)
	case CommandSplitCoins:
		w.uleb(bcsCommandSplitCoins)

		if err := encodeArgument(w, cmd.SplitCoins.Coin, commandCount); err != nil {
			return err
		}

		return encodeArguments(w, cmd.SplitCoins.Amounts, commandCount)
	case CommandMergeCoins:
		w.uleb(bcsCommandMergeCoins)

		if err := encodeArgument(w, cmd.MergeCoins.Destination, commandCount); err != nil {
			return err
		}

		return encodeArguments(w, cmd.MergeCoins.Sources, commandCount)
	case CommandMakeMoveVec:
		w.uleb(bcsCommandMakeMoveVec)

		if cmd.MakeMoveVec.Type != nil {
			w.u8(1)

			if err := encodeTypeTag(w, cmd.MakeMoveVec.Type); err != nil {
				return err
			}
		} else {
			w.u8(0)
		}

		return encodeArguments(w, cmd.MakeMoveVec.Elements, commandCount)
	case CommandPublish:
		w.uleb(bcsCommandPublish)
		encodeModules(w, cmd.Publish.Modules)
		encodeAddresses(w, cmd.Publish.Dependencies)

		return nil
	case CommandUpgrade:
		w.uleb(bcsCommandUpgrade)
		encodeModules(w, cmd.Upgrade.Modules)
		encodeAddresses(w, cmd.Upgrade.Dependencies)
		w.fixedBytes(cmd.Upgrade.Package.Bytes())

		return encodeArgument(w, cmd.Upgrade.Ticket, commandCount)
	case CommandTransactionIntent:
		// intents have no binary form
		return fmt.Errorf("cannot serialize unresolved intent %q", cmd.TransactionIntent.Name)
	default:
		return &ErrUnexpectedCommandKind{Kind: cmd.Kind}
	}
}

func encodeModules(w *bcsWriter, modules [][]byte) {
	w.uleb(len(modules))

	for _, m := range modules {
		w.vecBytes(m)
	}
}

func encodeAddresses(w *bcsWriter, addrs []Address) {
	w.uleb(len(addrs))

	for i := range addrs {
		w.fixedBytes(addrs[i].Bytes())
	}
}

func encodeTypeTag(w *bcsWriter, tag *TypeTag) error {
	switch tag.Kind {
	case TypeTagBool:
		w.uleb(bcsTypeTagBool)
	case TypeTagU8:
		w.uleb(bcsTypeTagU8)
	case TypeTagU16:
		w.uleb(bcsTypeTagU16)
	case TypeTagU32:
		w.uleb(bcsTypeTagU32)
	case TypeTagU64:
		w.uleb(bcsTypeTagU64)
	case TypeTagU128:
		w.uleb(bcsTypeTagU128)
	case TypeTagU256:
		w.uleb(bcsTypeTagU256)
	case TypeTagAddress:
		w.uleb(bcsTypeTagAddress)
	case TypeTagSigner:
		w.uleb(bcsTypeTagSigner)
	case TypeTagVector:
		w.uleb(bcsTypeTagVector)

		return encodeTypeTag(w, tag.Vector)
	case TypeTagStruct:
		w.uleb(bcsTypeTagStruct)
		w.fixedBytes(tag.Struct.Address.Bytes())
		w.str(tag.Struct.Module)
		w.str(tag.Struct.Name)
		w.uleb(len(tag.Struct.TypeParams))

		for i := range tag.Struct.TypeParams {
			if err := encodeTypeTag(w, &tag.Struct.TypeParams[i]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown type tag kind %q", tag.Kind)
	}

	return nil
}
