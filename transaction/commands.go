package transaction

import (
	"fmt"

	"github.com/movekit-lab/movekit/types"
)

// argument marshals a value usable wherever a prior result or input
// reference fits: a prepared Argument, a result handle, or an ArgFunc
func (tx *Transaction) argument(value interface{}) (types.Argument, error) {
	switch v := value.(type) {
	case types.Argument:
		return v, nil
	case *Result:
		return v.Arg(), nil
	case ArgFunc:
		return v(tx)
	case func(tx *Transaction) (types.Argument, error):
		return v(tx)
	default:
		return types.Argument{}, fmt.Errorf("cannot use %T as an argument", value)
	}
}

// amountArgument additionally accepts integers and decimal strings,
// which register as pure u64 inputs
func (tx *Transaction) amountArgument(value interface{}) (types.Argument, error) {
	switch v := value.(type) {
	case uint64:
		return tx.PureU64(v), nil
	case uint:
		return tx.PureU64(uint64(v)), nil
	case int:
		if v < 0 {
			return types.Argument{}, fmt.Errorf("negative amount %d", v)
		}

		return tx.PureU64(uint64(v)), nil
	case int64:
		if v < 0 {
			return types.Argument{}, fmt.Errorf("negative amount %d", v)
		}

		return tx.PureU64(uint64(v)), nil
	case string:
		encoded, err := types.U64Schema().Serialize(v)
		if err != nil {
			return types.Argument{}, err
		}

		return tx.PureBytes(encoded), nil
	default:
		return tx.argument(value)
	}
}

// recipientArgument additionally accepts address strings, which
// register as pure address inputs
func (tx *Transaction) recipientArgument(value interface{}) (types.Argument, error) {
	if str, ok := value.(string); ok {
		return tx.PureAddress(str)
	}

	return tx.argument(value)
}

// objectArgument additionally accepts object id strings and call
// args, which go through Object
func (tx *Transaction) objectArgument(value interface{}) (types.Argument, error) {
	switch value.(type) {
	case string, types.CallArg:
		return tx.Object(value)
	default:
		return tx.argument(value)
	}
}

func (tx *Transaction) arguments(values []interface{}, marshal func(interface{}) (types.Argument, error)) ([]types.Argument, error) {
	args := make([]types.Argument, len(values))

	for i, value := range values {
		arg, err := marshal(value)
		if err != nil {
			return nil, err
		}

		args[i] = arg
	}

	return args, nil
}

// SplitCoins splits amounts off a coin. The coin is an argument; the
// amounts are arguments, integers, or decimal strings.
func (tx *Transaction) SplitCoins(coin interface{}, amounts ...interface{}) (*Result, error) {
	coinArg, err := tx.objectArgument(coin)
	if err != nil {
		return nil, err
	}

	amountArgs, err := tx.arguments(amounts, tx.amountArgument)
	if err != nil {
		return nil, err
	}

	return tx.Add(types.SplitCoinsCommandOf(coinArg, amountArgs)), nil
}

// MergeCoins folds source coins into the destination coin
func (tx *Transaction) MergeCoins(destination interface{}, sources ...interface{}) (*Result, error) {
	destArg, err := tx.objectArgument(destination)
	if err != nil {
		return nil, err
	}

	sourceArgs, err := tx.arguments(sources, tx.objectArgument)
	if err != nil {
		return nil, err
	}

	return tx.Add(types.MergeCoinsCommandOf(destArg, sourceArgs)), nil
}

// TransferObjects sends objects to a recipient address
func (tx *Transaction) TransferObjects(objects []interface{}, recipient interface{}) (*Result, error) {
	objectArgs, err := tx.arguments(objects, tx.objectArgument)
	if err != nil {
		return nil, err
	}

	recipientArg, err := tx.recipientArgument(recipient)
	if err != nil {
		return nil, err
	}

	return tx.Add(types.TransferObjectsCommandOf(objectArgs, recipientArg)), nil
}

// MoveCall invokes "package::module::function" with the type
// arguments and call arguments
func (tx *Transaction) MoveCall(target string, typeArguments []string, arguments ...interface{}) (*Result, error) {
	pkg, module, function, err := types.SplitTarget(target)
	if err != nil {
		return nil, err
	}

	tags := make([]types.TypeTag, len(typeArguments))

	for i, str := range typeArguments {
		tag, err := types.ParseTypeTag(str)
		if err != nil {
			return nil, err
		}

		tags[i] = *tag
	}

	args, err := tx.arguments(arguments, tx.objectArgument)
	if err != nil {
		return nil, err
	}

	return tx.Add(types.MoveCallCommand(types.ProgrammableMoveCall{
		Package:       pkg,
		Module:        module,
		Function:      function,
		TypeArguments: tags,
		Arguments:     args,
	})), nil
}

// MakeMoveVec builds a Move vector from elements; typ may be empty
// when the element type is inferable on chain
func (tx *Transaction) MakeMoveVec(typ string, elements ...interface{}) (*Result, error) {
	var tag *types.TypeTag

	if typ != "" {
		parsed, err := types.ParseTypeTag(typ)
		if err != nil {
			return nil, err
		}

		tag = parsed
	}

	args, err := tx.arguments(elements, tx.objectArgument)
	if err != nil {
		return nil, err
	}

	return tx.Add(types.MakeMoveVecCommandOf(tag, args)), nil
}

// Publish deploys compiled modules with their dependency packages
func (tx *Transaction) Publish(modules [][]byte, dependencies []string) (*Result, error) {
	deps, err := parseAddresses(dependencies)
	if err != nil {
		return nil, err
	}

	return tx.Add(types.PublishCommandOf(modules, deps)), nil
}

// Upgrade replaces a published package using an upgrade ticket
func (tx *Transaction) Upgrade(modules [][]byte, dependencies []string, packageID string, ticket interface{}) (*Result, error) {
	deps, err := parseAddresses(dependencies)
	if err != nil {
		return nil, err
	}

	pkg, err := types.StringToAddress(packageID)
	if err != nil {
		return nil, err
	}

	ticketArg, err := tx.objectArgument(ticket)
	if err != nil {
		return nil, err
	}

	return tx.Add(types.UpgradeCommandOf(modules, deps, pkg, ticketArg)), nil
}

func parseAddresses(strs []string) ([]types.Address, error) {
	addrs := make([]types.Address, len(strs))

	for i, str := range strs {
		addr, err := types.StringToAddress(str)
		if err != nil {
			return nil, err
		}

		addrs[i] = addr
	}

	return addrs, nil
}
