package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/movekit-lab/movekit/client"
	"github.com/movekit-lab/movekit/types"
)

// pendingCall is a move call with at least one argument still bound to
// a transient input
type pendingCall struct {
	index int
	call  *types.ProgrammableMoveCall
	fn    *client.NormalizedFunction
}

// normalizeInputs is the terminal handler of the first stage: it binds
// every raw input to the schema its use site implies. Amounts become
// u64, recipients become addresses, and move-call parameters are typed
// from the normalized function signature.
func (p *Pipeline) normalizeInputs(ctx context.Context, env *Env, _ interface{}, _ Next) error {
	var pending []pendingCall

	for i := range env.State.Commands {
		cmd := &env.State.Commands[i]

		switch cmd.Kind {
		case types.CommandSplitCoins:
			for _, amount := range cmd.SplitCoins.Amounts {
				if err := normalizeRawArgument(env.State, amount, types.U64Schema()); err != nil {
					return err
				}
			}
		case types.CommandTransferObjects:
			if err := normalizeRawArgument(env.State, cmd.TransferObjects.Recipient, types.AddressSchema()); err != nil {
				return err
			}
		case types.CommandMoveCall:
			if callNeedsNormalization(env.State, cmd.MoveCall) {
				pending = append(pending, pendingCall{index: i, call: cmd.MoveCall})
			}
		}
	}

	if len(pending) == 0 {
		return nil
	}

	// signature fetches fan out; mutation happens sequentially after
	// the join so input updates stay deterministic
	group, groupCtx := errgroup.WithContext(ctx)

	for i := range pending {
		i := i

		group.Go(func() error {
			call := pending[i].call

			fn, err := env.Client.GetNormalizedMoveFunction(
				groupCtx, call.Package.String(), call.Module, call.Function)
			if err != nil {
				return err
			}

			pending[i].fn = fn

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for i := range pending {
		if err := normalizeMoveCall(env.State, pending[i].call, pending[i].fn); err != nil {
			return err
		}
	}

	return nil
}

// callNeedsNormalization reports whether any argument of the call
// references an input still in a transient state
func callNeedsNormalization(state *types.TransactionState, call *types.ProgrammableMoveCall) bool {
	for _, arg := range call.Arguments {
		if arg.Kind != types.ArgumentInput {
			continue
		}

		if int(arg.Input) < len(state.Inputs) && state.Inputs[arg.Input].IsTransient() {
			return true
		}
	}

	return false
}

func normalizeMoveCall(state *types.TransactionState, call *types.ProgrammableMoveCall, fn *client.NormalizedFunction) error {
	params := fn.Parameters

	// callers never supply the trailing TxContext
	if len(params) > 0 && params[len(params)-1].IsTxContext() {
		params = params[:len(params)-1]
	}

	if len(params) != len(call.Arguments) {
		return &ArityMismatchError{
			Target: fmt.Sprintf("%s::%s::%s", call.Package.String(), call.Module, call.Function),
			Params: len(params),
			Args:   len(call.Arguments),
		}
	}

	for i := range params {
		arg := call.Arguments[i]
		if arg.Kind != types.ArgumentInput || int(arg.Input) >= len(state.Inputs) {
			continue
		}

		input := &state.Inputs[arg.Input]
		if !input.IsTransient() {
			continue
		}

		sig, err := params[i].ToOpenSignature()
		if err != nil {
			return err
		}

		if schema, ok := types.PureSchemaOf(&sig.Body); ok {
			if input.Kind != types.CallArgRawValue {
				continue
			}

			encoded, err := schema.Serialize(input.RawValue.Value)
			if err != nil {
				return fmt.Errorf("inputs[%d]: %w", arg.Input, err)
			}

			*input = types.PureCallArg(encoded)

			continue
		}

		if err := upgradeToUnresolvedObject(input, sig); err != nil {
			return fmt.Errorf("inputs[%d]: %w", arg.Input, err)
		}
	}

	return nil
}

// upgradeToUnresolvedObject binds an object-typed parameter signature
// to the input, promoting raw values to unresolved objects
func upgradeToUnresolvedObject(input *types.CallArg, sig types.OpenMoveTypeSignature) error {
	switch input.Kind {
	case types.CallArgRawValue:
		id, ok := input.RawValue.Value.(string)
		if !ok {
			return ErrExpectedObjectIDString
		}

		*input = types.CallArg{
			Kind: types.CallArgUnresolvedObject,
			UnresolvedObject: &types.UnresolvedObject{
				Value:          id,
				TypeSignatures: []types.OpenMoveTypeSignature{sig},
			},
		}
	case types.CallArgUnresolvedObject:
		input.UnresolvedObject.TypeSignatures = append(input.UnresolvedObject.TypeSignatures, sig)
	}

	return nil
}

// normalizeRawArgument force-encodes the input behind an Input
// argument under the schema, when it is still a raw value
func normalizeRawArgument(state *types.TransactionState, arg types.Argument, schema *types.PureSchema) error {
	if arg.Kind != types.ArgumentInput || int(arg.Input) >= len(state.Inputs) {
		return nil
	}

	input := &state.Inputs[arg.Input]
	if input.Kind != types.CallArgRawValue {
		return nil
	}

	encoded, err := schema.Serialize(input.RawValue.Value)
	if err != nil {
		return fmt.Errorf("inputs[%d]: %w", arg.Input, err)
	}

	*input = types.PureCallArg(encoded)

	return nil
}
