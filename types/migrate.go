package types

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// StateVersionV1 is the legacy on-disk schema version
const StateVersionV1 = 1

// StateV1 is the legacy snapshot shape: positional inputs with a
// separate value/type pair, and commands under "transactions"
type StateV1 struct {
	Version      int             `json:"version"`
	Sender       *Address        `json:"sender,omitempty"`
	Expiration   *Expiration     `json:"expiration,omitempty"`
	GasConfig    GasData         `json:"gasConfig"`
	Inputs       []InputV1       `json:"inputs"`
	Transactions []TransactionV1 `json:"transactions"`
}

// InputV1 is a legacy input slot. Kind "Pure" and "Object" carry a
// resolved value; kind "Input" carries an untyped raw value.
type InputV1 struct {
	Kind  string          `json:"kind"`
	Index uint16          `json:"index"`
	Value json.RawMessage `json:"value,omitempty"`
	Type  string          `json:"type,omitempty"`
}

// objectValueV1 is the legacy object-input payload
type objectValueV1 struct {
	ImmOrOwned *ObjectRef       `json:"ImmOrOwned,omitempty"`
	Shared     *SharedObjectRef `json:"Shared,omitempty"`
	Receiving  *ObjectRef       `json:"Receiving,omitempty"`
}

// TransactionV1 is a legacy command. Payload stays raw so unknown
// kinds round-trip untouched through the intent mapping.
type TransactionV1 struct {
	Kind    string
	Payload json.RawMessage
}

func (t TransactionV1) MarshalJSON() ([]byte, error) {
	var fields map[string]json.RawMessage

	if len(t.Payload) > 0 {
		if err := json.Unmarshal(t.Payload, &fields); err != nil {
			return nil, err
		}
	}

	if fields == nil {
		fields = map[string]json.RawMessage{}
	}

	kind, err := json.Marshal(t.Kind)
	if err != nil {
		return nil, err
	}

	fields["kind"] = kind

	return json.Marshal(fields)
}

func (t *TransactionV1) UnmarshalJSON(input []byte) error {
	var probe struct {
		Kind string `json:"kind"`
	}

	if err := json.Unmarshal(input, &probe); err != nil {
		return err
	}

	if probe.Kind == "" {
		return fmt.Errorf("v1 transaction: missing kind")
	}

	t.Kind = probe.Kind
	t.Payload = append(json.RawMessage{}, input...)

	return nil
}

type moveCallV1 struct {
	Target        string     `json:"target"`
	TypeArguments []string   `json:"typeArguments,omitempty"`
	Arguments     []Argument `json:"arguments"`
}

type transferObjectsV1 struct {
	Objects []Argument `json:"objects"`
	Address Argument   `json:"address"`
}

type makeMoveVecV1 struct {
	Type    *string    `json:"type,omitempty"`
	Objects []Argument `json:"objects"`
}

type publishV1 struct {
	Modules      [][]byte  `json:"modules"`
	Dependencies []Address `json:"dependencies"`
}

type upgradeV1 struct {
	Modules      [][]byte  `json:"modules"`
	Dependencies []Address `json:"dependencies"`
	PackageID    Address   `json:"packageId"`
	Ticket       Argument  `json:"ticket"`
}

// UpgradeState translates a legacy v1 state into the current v2
// shape. The translation is mechanical and order-preserving: input
// and command indices are identical on both sides.
func UpgradeState(v1 *StateV1) (*TransactionState, error) {
	if v1.Version != StateVersionV1 {
		return nil, fmt.Errorf("cannot upgrade state version %d", v1.Version)
	}

	s := NewTransactionState()
	s.Sender = v1.Sender
	s.Expiration = v1.Expiration
	s.GasData = v1.GasConfig

	for i := range v1.Inputs {
		arg, err := upgradeInput(&v1.Inputs[i])
		if err != nil {
			return nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}

		s.Inputs = append(s.Inputs, arg)
	}

	for i := range v1.Transactions {
		cmd, err := upgradeTransaction(&v1.Transactions[i])
		if err != nil {
			return nil, fmt.Errorf("transactions[%d]: %w", i, err)
		}

		s.Commands = append(s.Commands, cmd)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func upgradeInput(in *InputV1) (CallArg, error) {
	switch in.Kind {
	case "Pure":
		var pure PureBytes
		if err := json.Unmarshal(in.Value, &pure); err != nil {
			return CallArg{}, err
		}

		return CallArg{Kind: CallArgPure, Pure: &pure}, nil
	case "Object":
		var value objectValueV1
		if err := json.Unmarshal(in.Value, &value); err != nil {
			return CallArg{}, err
		}

		switch {
		case value.ImmOrOwned != nil:
			return OwnedObjectCallArg(*value.ImmOrOwned), nil
		case value.Shared != nil:
			return SharedObjectCallArg(*value.Shared), nil
		case value.Receiving != nil:
			return ReceivingObjectCallArg(*value.Receiving), nil
		default:
			return CallArg{}, fmt.Errorf("empty object value")
		}
	case "Input":
		if in.Type == RawValueObject {
			var id string
			if err := json.Unmarshal(in.Value, &id); err == nil {
				return UnresolvedObjectCallArg(id), nil
			}
		}

		var value interface{}
		if err := json.Unmarshal(in.Value, &value); err != nil {
			return CallArg{}, err
		}

		return RawValueCallArg(value, in.Type), nil
	default:
		return CallArg{}, fmt.Errorf("unknown input kind %q", in.Kind)
	}
}

func upgradeTransaction(t *TransactionV1) (Command, error) {
	switch t.Kind {
	case CommandMoveCall:
		var call moveCallV1
		if err := json.Unmarshal(t.Payload, &call); err != nil {
			return Command{}, err
		}

		pkg, module, function, err := SplitTarget(call.Target)
		if err != nil {
			return Command{}, err
		}

		tags := make([]TypeTag, len(call.TypeArguments))

		for i, str := range call.TypeArguments {
			tag, err := ParseTypeTag(str)
			if err != nil {
				return Command{}, err
			}

			tags[i] = *tag
		}

		return MoveCallCommand(ProgrammableMoveCall{
			Package:       pkg,
			Module:        module,
			Function:      function,
			TypeArguments: tags,
			Arguments:     call.Arguments,
		}), nil
	case CommandTransferObjects:
		var transfer transferObjectsV1
		if err := json.Unmarshal(t.Payload, &transfer); err != nil {
			return Command{}, err
		}

		return TransferObjectsCommandOf(transfer.Objects, transfer.Address), nil
	case CommandSplitCoins:
		var split SplitCoinsCommand
		if err := json.Unmarshal(t.Payload, &split); err != nil {
			return Command{}, err
		}

		return Command{Kind: CommandSplitCoins, SplitCoins: &split}, nil
	case CommandMergeCoins:
		var merge MergeCoinsCommand
		if err := json.Unmarshal(t.Payload, &merge); err != nil {
			return Command{}, err
		}

		return Command{Kind: CommandMergeCoins, MergeCoins: &merge}, nil
	case CommandMakeMoveVec:
		var makeVec makeMoveVecV1
		if err := json.Unmarshal(t.Payload, &makeVec); err != nil {
			return Command{}, err
		}

		var typ *TypeTag

		if makeVec.Type != nil {
			tag, err := ParseTypeTag(*makeVec.Type)
			if err != nil {
				return Command{}, err
			}

			typ = tag
		}

		return MakeMoveVecCommandOf(typ, makeVec.Objects), nil
	case CommandPublish:
		var publish publishV1
		if err := json.Unmarshal(t.Payload, &publish); err != nil {
			return Command{}, err
		}

		return PublishCommandOf(publish.Modules, publish.Dependencies), nil
	case CommandUpgrade:
		var upgrade upgradeV1
		if err := json.Unmarshal(t.Payload, &upgrade); err != nil {
			return Command{}, err
		}

		return UpgradeCommandOf(upgrade.Modules, upgrade.Dependencies, upgrade.PackageID, upgrade.Ticket), nil
	default:
		// unknown v1 kinds carry over as intents, payload untouched
		return TransactionIntentCommand(TransactionIntent{
			Name: t.Kind,
			Data: t.Payload,
		}), nil
	}
}

// DowngradeState translates a v2 state back to the legacy v1 shape.
// Intent commands downgrade to their original raw payload, so a
// v1 -> v2 -> v1 round trip reproduces the source state.
func DowngradeState(s *TransactionState) (*StateV1, error) {
	if s.Version != StateVersion {
		return nil, fmt.Errorf("cannot downgrade state version %d", s.Version)
	}

	v1 := &StateV1{
		Version:      StateVersionV1,
		Sender:       s.Sender,
		Expiration:   s.Expiration,
		GasConfig:    s.GasData,
		Inputs:       []InputV1{},
		Transactions: []TransactionV1{},
	}

	for i := range s.Inputs {
		in, err := downgradeInput(&s.Inputs[i], uint16(i))
		if err != nil {
			return nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}

		v1.Inputs = append(v1.Inputs, in)
	}

	for i := range s.Commands {
		t, err := downgradeCommand(&s.Commands[i])
		if err != nil {
			return nil, fmt.Errorf("commands[%d]: %w", i, err)
		}

		v1.Transactions = append(v1.Transactions, t)
	}

	return v1, nil
}

func downgradeInput(arg *CallArg, index uint16) (InputV1, error) {
	switch arg.Kind {
	case CallArgPure:
		value, err := json.Marshal(arg.Pure)
		if err != nil {
			return InputV1{}, err
		}

		return InputV1{Kind: "Pure", Index: index, Value: value, Type: RawValuePure}, nil
	case CallArgObject:
		value := objectValueV1{}

		switch arg.Object.Kind {
		case ObjectArgImmOrOwned:
			value.ImmOrOwned = arg.Object.ImmOrOwnedObject
		case ObjectArgShared:
			value.Shared = arg.Object.SharedObject
		case ObjectArgReceiving:
			value.Receiving = arg.Object.Receiving
		default:
			return InputV1{}, fmt.Errorf("unknown object arg kind %q", arg.Object.Kind)
		}

		raw, err := json.Marshal(value)
		if err != nil {
			return InputV1{}, err
		}

		return InputV1{Kind: "Object", Index: index, Value: raw, Type: RawValueObject}, nil
	case CallArgUnresolvedObject:
		raw, err := json.Marshal(arg.UnresolvedObject.Value)
		if err != nil {
			return InputV1{}, err
		}

		return InputV1{Kind: "Input", Index: index, Value: raw, Type: RawValueObject}, nil
	case CallArgRawValue:
		raw, err := json.Marshal(arg.RawValue.Value)
		if err != nil {
			return InputV1{}, err
		}

		return InputV1{Kind: "Input", Index: index, Value: raw, Type: arg.RawValue.Type}, nil
	default:
		return InputV1{}, fmt.Errorf("unknown call arg kind %q", arg.Kind)
	}
}

func downgradeCommand(cmd *Command) (TransactionV1, error) {
	marshal := func(kind string, payload interface{}) (TransactionV1, error) {
		raw, err := json.Marshal(payload)
		if err != nil {
			return TransactionV1{}, err
		}

		return TransactionV1{Kind: kind, Payload: raw}, nil
	}

	switch cmd.Kind {
	case CommandMoveCall:
		tags := make([]string, len(cmd.MoveCall.TypeArguments))
		for i := range cmd.MoveCall.TypeArguments {
			tags[i] = cmd.MoveCall.TypeArguments[i].String()
		}

		return marshal(cmd.Kind, moveCallV1{
			Target: fmt.Sprintf("%s::%s::%s",
				cmd.MoveCall.Package.String(), cmd.MoveCall.Module, cmd.MoveCall.Function),
			TypeArguments: tags,
			Arguments:     cmd.MoveCall.Arguments,
		})
	case CommandTransferObjects:
		return marshal(cmd.Kind, transferObjectsV1{
			Objects: cmd.TransferObjects.Objects,
			Address: cmd.TransferObjects.Recipient,
		})
	case CommandSplitCoins:
		return marshal(cmd.Kind, cmd.SplitCoins)
	case CommandMergeCoins:
		return marshal(cmd.Kind, cmd.MergeCoins)
	case CommandMakeMoveVec:
		var typ *string

		if cmd.MakeMoveVec.Type != nil {
			str := cmd.MakeMoveVec.Type.String()
			typ = &str
		}

		return marshal(cmd.Kind, makeMoveVecV1{Type: typ, Objects: cmd.MakeMoveVec.Elements})
	case CommandPublish:
		return marshal(cmd.Kind, publishV1{
			Modules:      cmd.Publish.Modules,
			Dependencies: cmd.Publish.Dependencies,
		})
	case CommandUpgrade:
		return marshal(cmd.Kind, upgradeV1{
			Modules:      cmd.Upgrade.Modules,
			Dependencies: cmd.Upgrade.Dependencies,
			PackageID:    cmd.Upgrade.Package,
			Ticket:       cmd.Upgrade.Ticket,
		})
	case CommandTransactionIntent:
		return TransactionV1{Kind: cmd.TransactionIntent.Name, Payload: cmd.TransactionIntent.Data}, nil
	default:
		return TransactionV1{}, &ErrUnexpectedCommandKind{Kind: cmd.Kind}
	}
}

// SplitTarget parses a "package::module::function" call target
func SplitTarget(target string) (Address, string, string, error) {
	parts := strings.Split(target, "::")
	if len(parts) != 3 {
		return ZeroAddress, "", "", fmt.Errorf("invalid call target %q", target)
	}

	pkg, err := StringToAddress(parts[0])
	if err != nil {
		return ZeroAddress, "", "", err
	}

	return pkg, parts[1], parts[2], nil
}
