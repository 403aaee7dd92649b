package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Command kinds, in their canonical binary order. TransactionIntent is
// transient: it must be rewritten into primitive commands before build.
const (
	CommandMoveCall          = "MoveCall"
	CommandTransferObjects   = "TransferObjects"
	CommandSplitCoins        = "SplitCoins"
	CommandMergeCoins        = "MergeCoins"
	CommandMakeMoveVec       = "MakeMoveVec"
	CommandPublish           = "Publish"
	CommandUpgrade           = "Upgrade"
	CommandTransactionIntent = "TransactionIntent"
)

// ErrUnexpectedCommandKind signals a corrupted command list
type ErrUnexpectedCommandKind struct {
	Kind string
}

func (e *ErrUnexpectedCommandKind) Error() string {
	return fmt.Sprintf("unexpected command kind %q", e.Kind)
}

// ProgrammableMoveCall invokes an entry or public Move function
type ProgrammableMoveCall struct {
	Package       Address    `json:"package"`
	Module        string     `json:"module"`
	Function      string     `json:"function"`
	TypeArguments []TypeTag  `json:"typeArguments"`
	Arguments     []Argument `json:"arguments"`
}

type TransferObjectsCommand struct {
	Objects   []Argument `json:"objects"`
	Recipient Argument   `json:"recipient"`
}

type SplitCoinsCommand struct {
	Coin    Argument   `json:"coin"`
	Amounts []Argument `json:"amounts"`
}

type MergeCoinsCommand struct {
	Destination Argument   `json:"destination"`
	Sources     []Argument `json:"sources"`
}

type MakeMoveVecCommand struct {
	Type     *TypeTag   `json:"type,omitempty"`
	Elements []Argument `json:"elements"`
}

type PublishCommand struct {
	Modules      [][]byte  `json:"modules"`
	Dependencies []Address `json:"dependencies"`
}

type UpgradeCommand struct {
	Modules      [][]byte  `json:"modules"`
	Dependencies []Address `json:"dependencies"`
	Package      Address   `json:"package"`
	Ticket       Argument  `json:"ticket"`
}

// IntentInput is a scalar argument or a list of arguments bound to one
// named intent input
type IntentInput struct {
	Single *Argument
	List   []Argument
}

func (i IntentInput) MarshalJSON() ([]byte, error) {
	if i.Single != nil {
		return json.Marshal(i.Single)
	}

	return json.Marshal(i.List)
}

func (i *IntentInput) UnmarshalJSON(input []byte) error {
	if len(input) > 0 && input[0] == '[' {
		return json.Unmarshal(input, &i.List)
	}

	i.Single = &Argument{}

	return json.Unmarshal(input, i.Single)
}

// TransactionIntent is a symbolic command that a registered resolver
// rewrites into primitive commands before build
type TransactionIntent struct {
	Name   string                 `json:"name"`
	Inputs map[string]IntentInput `json:"inputs,omitempty"`
	Data   json.RawMessage        `json:"data,omitempty"`
}

// Command is one step of a programmable transaction
type Command struct {
	Kind              string
	MoveCall          *ProgrammableMoveCall
	TransferObjects   *TransferObjectsCommand
	SplitCoins        *SplitCoinsCommand
	MergeCoins        *MergeCoinsCommand
	MakeMoveVec       *MakeMoveVecCommand
	Publish           *PublishCommand
	Upgrade           *UpgradeCommand
	TransactionIntent *TransactionIntent
}

func MoveCallCommand(call ProgrammableMoveCall) Command {
	return Command{Kind: CommandMoveCall, MoveCall: &call}
}

func TransferObjectsCommandOf(objects []Argument, recipient Argument) Command {
	return Command{
		Kind:            CommandTransferObjects,
		TransferObjects: &TransferObjectsCommand{Objects: objects, Recipient: recipient},
	}
}

func SplitCoinsCommandOf(coin Argument, amounts []Argument) Command {
	return Command{
		Kind:       CommandSplitCoins,
		SplitCoins: &SplitCoinsCommand{Coin: coin, Amounts: amounts},
	}
}

func MergeCoinsCommandOf(destination Argument, sources []Argument) Command {
	return Command{
		Kind:       CommandMergeCoins,
		MergeCoins: &MergeCoinsCommand{Destination: destination, Sources: sources},
	}
}

func MakeMoveVecCommandOf(typ *TypeTag, elements []Argument) Command {
	return Command{
		Kind:        CommandMakeMoveVec,
		MakeMoveVec: &MakeMoveVecCommand{Type: typ, Elements: elements},
	}
}

func PublishCommandOf(modules [][]byte, dependencies []Address) Command {
	return Command{
		Kind:    CommandPublish,
		Publish: &PublishCommand{Modules: modules, Dependencies: dependencies},
	}
}

func UpgradeCommandOf(modules [][]byte, dependencies []Address, pkg Address, ticket Argument) Command {
	return Command{
		Kind: CommandUpgrade,
		Upgrade: &UpgradeCommand{
			Modules:      modules,
			Dependencies: dependencies,
			Package:      pkg,
			Ticket:       ticket,
		},
	}
}

func TransactionIntentCommand(intent TransactionIntent) Command {
	return Command{Kind: CommandTransactionIntent, TransactionIntent: &intent}
}

// MapArguments applies fn to every argument slot of the command. The
// traversal covers every slot the command shape defines; an unknown
// kind is a fatal state corruption.
func (c *Command) MapArguments(fn func(Argument) Argument) error {
	mapAll := func(args []Argument) {
		for i := range args {
			args[i] = fn(args[i])
		}
	}

	switch c.Kind {
	case CommandMoveCall:
		mapAll(c.MoveCall.Arguments)
	case CommandTransferObjects:
		mapAll(c.TransferObjects.Objects)
		c.TransferObjects.Recipient = fn(c.TransferObjects.Recipient)
	case CommandSplitCoins:
		c.SplitCoins.Coin = fn(c.SplitCoins.Coin)
		mapAll(c.SplitCoins.Amounts)
	case CommandMergeCoins:
		c.MergeCoins.Destination = fn(c.MergeCoins.Destination)
		mapAll(c.MergeCoins.Sources)
	case CommandMakeMoveVec:
		mapAll(c.MakeMoveVec.Elements)
	case CommandPublish:
		// no argument slots
	case CommandUpgrade:
		c.Upgrade.Ticket = fn(c.Upgrade.Ticket)
	case CommandTransactionIntent:
		for name, input := range c.TransactionIntent.Inputs {
			if input.Single != nil {
				mapped := fn(*input.Single)
				input.Single = &mapped
			} else {
				mapAll(input.List)
			}

			c.TransactionIntent.Inputs[name] = input
		}
	default:
		return &ErrUnexpectedCommandKind{Kind: c.Kind}
	}

	return nil
}

func (c Command) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CommandMoveCall:
		return taggedJSON(c.Kind, c.MoveCall)
	case CommandTransferObjects:
		return taggedJSON(c.Kind, c.TransferObjects)
	case CommandSplitCoins:
		return taggedJSON(c.Kind, c.SplitCoins)
	case CommandMergeCoins:
		return taggedJSON(c.Kind, c.MergeCoins)
	case CommandMakeMoveVec:
		return taggedJSON(c.Kind, c.MakeMoveVec)
	case CommandPublish:
		return taggedJSON(c.Kind, c.Publish)
	case CommandUpgrade:
		return taggedJSON(c.Kind, c.Upgrade)
	case CommandTransactionIntent:
		return taggedJSON(c.Kind, c.TransactionIntent)
	default:
		return nil, &ErrUnexpectedCommandKind{Kind: c.Kind}
	}
}

func (c *Command) UnmarshalJSON(input []byte) error {
	kind, payload, err := taggedKind(input)
	if err != nil {
		return err
	}

	c.Kind = kind

	switch kind {
	case CommandMoveCall:
		return json.Unmarshal(payload, &c.MoveCall)
	case CommandTransferObjects:
		return json.Unmarshal(payload, &c.TransferObjects)
	case CommandSplitCoins:
		return json.Unmarshal(payload, &c.SplitCoins)
	case CommandMergeCoins:
		return json.Unmarshal(payload, &c.MergeCoins)
	case CommandMakeMoveVec:
		return json.Unmarshal(payload, &c.MakeMoveVec)
	case CommandPublish:
		return json.Unmarshal(payload, &c.Publish)
	case CommandUpgrade:
		return json.Unmarshal(payload, &c.Upgrade)
	case CommandTransactionIntent:
		return json.Unmarshal(payload, &c.TransactionIntent)
	default:
		return &ErrUnexpectedCommandKind{Kind: kind}
	}
}
