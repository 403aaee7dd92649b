package pipeline

import (
	"context"

	"github.com/movekit-lab/movekit/txbuild"
	"github.com/movekit-lab/movekit/types"
)

// gasPriceOverhead is the computation-cost slack added per unit of
// gas price when estimating a budget from a dry run
const gasPriceOverhead = 1000

// setGasPrice is a no-op when a price is already set; otherwise it
// stores the current reference gas price
func (p *Pipeline) setGasPrice(ctx context.Context, env *Env, _ interface{}, _ Next) error {
	if env.State.GasData.Price != nil {
		return nil
	}

	price, err := env.Client.GetReferenceGasPrice(ctx)
	if err != nil {
		return err
	}

	stored := types.Uint64String(price)
	env.State.GasData.Price = &stored

	p.logger.Debug("reference gas price fetched", "price", price)

	return nil
}

// setGasBudget is a no-op when a budget is already set; otherwise it
// dry-runs the transaction and derives a budget from the reported
// gas usage
func (p *Pipeline) setGasBudget(ctx context.Context, env *Env, _ interface{}, _ Next) error {
	if env.State.GasData.Budget != nil {
		return nil
	}

	limits := p.fetchLimits(ctx, env)

	encoded, err := p.dryRunBytes(env, limits)
	if err != nil {
		return err
	}

	result, err := env.Client.DryRunTransactionBlock(ctx, encoded)
	if err != nil {
		return err
	}

	if !result.Effects.Status.IsSuccess() {
		return &DryRunFailedError{
			EffectsError: result.Effects.Status.Error,
			Response:     result,
		}
	}

	var price uint64 = 1

	if env.State.GasData.Price != nil {
		price = uint64(*env.State.GasData.Price)
	}

	used := result.Effects.GasUsed

	// computation plus a slack proportional to the gas price is the
	// floor; storage costs net of the rebate come on top
	base := uint64(used.ComputationCost) + gasPriceOverhead*price
	withStorage := base + uint64(used.StorageCost)

	var budget uint64

	if rebate := uint64(used.StorageRebate); withStorage > rebate {
		budget = withStorage - rebate
	}

	if budget < base {
		budget = base
	}

	stored := types.Uint64String(budget)
	env.State.GasData.Budget = &stored

	p.metrics.setDryRunGasBudget(float64(budget))
	p.logger.Debug("gas budget estimated", "budget", budget)

	return nil
}

// dryRunBytes serializes the transaction for estimation: the maximum
// gas budget and an empty payment list stand in for the unresolved
// gas fields
func (p *Pipeline) dryRunBytes(env *Env, limits *Limits) ([]byte, error) {
	state := env.State

	data := &types.TransactionData{
		Expiration: types.Expiration{Kind: types.ExpirationNone},
		GasPayment: []types.ObjectRef{},
		GasBudget:  limits.MaxTxGas,
		GasPrice:   1,
		Inputs:     state.Inputs,
		Commands:   state.Commands,
	}

	if state.Sender == nil {
		return nil, txbuild.ErrMissingSender
	}

	data.Sender = *state.Sender
	data.GasOwner = *state.Sender

	if state.GasData.Owner != nil {
		data.GasOwner = *state.GasData.Owner
	}

	if state.GasData.Price != nil {
		data.GasPrice = uint64(*state.GasData.Price)
	}

	if state.Expiration != nil {
		data.Expiration = *state.Expiration
	}

	return data.MarshalBCS()
}

// setGasPayment is a no-op when a payment list is already set, beyond
// enforcing the protocol bound; otherwise it selects coins owned by
// the gas owner that the transaction does not already use as inputs
func (p *Pipeline) setGasPayment(ctx context.Context, env *Env, _ interface{}, _ Next) error {
	limits := p.fetchLimits(ctx, env)

	if env.State.GasData.Payment != nil {
		if len(env.State.GasData.Payment) > limits.MaxGasObjects {
			return &TooManyGasCoinsError{
				Count: len(env.State.GasData.Payment),
				Max:   limits.MaxGasObjects,
			}
		}

		return nil
	}

	gasOwner := env.State.Sender
	if env.State.GasData.Owner != nil {
		gasOwner = env.State.GasData.Owner
	}

	if gasOwner == nil {
		return txbuild.ErrMissingSender
	}

	coins, err := env.Client.GetCoins(ctx, *gasOwner, p.coinType)
	if err != nil {
		return err
	}

	usedIDs := map[types.Address]struct{}{}

	for i := range env.State.Inputs {
		input := &env.State.Inputs[i]
		if input.Kind == types.CallArgObject && input.Object.Kind == types.ObjectArgImmOrOwned {
			usedIDs[input.Object.ImmOrOwnedObject.ObjectID] = struct{}{}
		}
	}

	payment := []types.ObjectRef{}

	for i := range coins {
		if len(payment) >= limits.MaxGasObjects-1 {
			break
		}

		ref, err := coins[i].ObjectRef()
		if err != nil {
			return err
		}

		if _, used := usedIDs[ref.ObjectID]; used {
			continue
		}

		payment = append(payment, ref)
	}

	if len(payment) == 0 {
		return ErrNoGasCoins
	}

	env.State.GasData.Payment = payment

	return nil
}
