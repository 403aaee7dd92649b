// Package transaction is the user-facing assembly API: a Transaction
// collects inputs and commands through typed shorthands, then resolves
// and serializes itself through the pipeline.
package transaction

import (
	"fmt"

	"github.com/movekit-lab/movekit/pipeline"
	"github.com/movekit-lab/movekit/txbuild"
	"github.com/movekit-lab/movekit/types"
)

// ArgFunc is a deferred argument: it receives the transaction at
// registration time and produces the argument to use in its place
type ArgFunc func(tx *Transaction) (types.Argument, error)

// Transaction assembles a programmable transaction block. Not safe
// for concurrent use.
type Transaction struct {
	data *txbuild.BlockData

	plugins   map[string][]pipeline.Handler
	resolvers map[string]pipeline.Handler
}

// NewTransaction creates an empty transaction
func NewTransaction() *Transaction {
	return &Transaction{
		data:      txbuild.NewBlockData(),
		plugins:   map[string][]pipeline.Handler{},
		resolvers: map[string]pipeline.Handler{},
	}
}

// Restore reconstructs a transaction from a v1 or v2 JSON snapshot
func Restore(raw []byte) (*Transaction, error) {
	data, err := txbuild.Restore(raw)
	if err != nil {
		return nil, err
	}

	return &Transaction{
		data:      data,
		plugins:   map[string][]pipeline.Handler{},
		resolvers: map[string]pipeline.Handler{},
	}, nil
}

// FromBytes reconstructs a transaction from full serialized bytes
func FromBytes(raw []byte) (*Transaction, error) {
	data, err := txbuild.FromBytes(raw)
	if err != nil {
		return nil, err
	}

	return &Transaction{
		data:      data,
		plugins:   map[string][]pipeline.Handler{},
		resolvers: map[string]pipeline.Handler{},
	}, nil
}

// BlockData exposes the underlying builder
func (tx *Transaction) BlockData() *txbuild.BlockData {
	return tx.data
}

// AddBuildPlugin appends a plugin to one resolution stage of every
// subsequent build
func (tx *Transaction) AddBuildPlugin(stage string, plugin pipeline.Handler) {
	tx.plugins[stage] = append(tx.plugins[stage], plugin)
}

// AddIntentResolver installs the resolver used for an intent name
func (tx *Transaction) AddIntentResolver(name string, resolver pipeline.Handler) error {
	if _, ok := tx.resolvers[name]; ok {
		return &pipeline.IntentResolverConflictError{Name: name}
	}

	tx.resolvers[name] = resolver

	return nil
}

// Gas references the gas coin
func (tx *Transaction) Gas() types.Argument {
	return types.GasCoinArgument()
}

// SetSender sets the transaction sender
func (tx *Transaction) SetSender(sender types.Address) {
	s := sender
	tx.data.State().Sender = &s
}

// SetSenderIfNotSet sets the sender unless one is present
func (tx *Transaction) SetSenderIfNotSet(sender types.Address) {
	if tx.data.State().Sender == nil {
		tx.SetSender(sender)
	}
}

// SetExpiration sets the expiration; nil clears it back to none
func (tx *Transaction) SetExpiration(expiration *types.Expiration) {
	tx.data.State().Expiration = expiration
}

// SetGasPrice pins the gas price, skipping the reference price lookup
func (tx *Transaction) SetGasPrice(price uint64) {
	v := types.Uint64String(price)
	tx.data.State().GasData.Price = &v
}

// SetGasBudget pins the gas budget, skipping the dry-run estimate
func (tx *Transaction) SetGasBudget(budget uint64) {
	v := types.Uint64String(budget)
	tx.data.State().GasData.Budget = &v
}

// SetGasBudgetIfNotSet pins the gas budget unless one is present
func (tx *Transaction) SetGasBudgetIfNotSet(budget uint64) {
	if tx.data.State().GasData.Budget == nil {
		tx.SetGasBudget(budget)
	}
}

// SetGasOwner sets the sponsor paying for gas
func (tx *Transaction) SetGasOwner(owner types.Address) {
	o := owner
	tx.data.State().GasData.Owner = &o
}

// SetGasPayment pins the gas payment list, skipping coin selection
func (tx *Transaction) SetGasPayment(payment []types.ObjectRef) {
	if payment == nil {
		payment = []types.ObjectRef{}
	}

	tx.data.State().GasData.Payment = payment
}

// Object registers an object input and returns its argument. Accepts
// an object id string, a prepared CallArg, an existing Input argument
// (returned as is), or an ArgFunc. Object inputs dedupe by id: adding
// the same object twice reuses the first slot, and a shared object's
// mutability is the logical OR of all requests.
func (tx *Transaction) Object(value interface{}) (types.Argument, error) {
	switch v := value.(type) {
	case string:
		id, err := types.NormalizeAddress(v)
		if err != nil {
			return types.Argument{}, err
		}

		return tx.addObjectInput(types.UnresolvedObjectCallArg(id)), nil
	case types.CallArg:
		if v.Kind != types.CallArgObject && v.Kind != types.CallArgUnresolvedObject {
			return types.Argument{}, fmt.Errorf("call arg of kind %q is not an object input", v.Kind)
		}

		return tx.addObjectInput(v), nil
	case types.Argument:
		if v.Kind != types.ArgumentInput {
			return types.Argument{}, fmt.Errorf("argument %s does not reference an input", v.String())
		}

		return v, nil
	case ArgFunc:
		return v(tx)
	case func(tx *Transaction) (types.Argument, error):
		return v(tx)
	default:
		return types.Argument{}, fmt.Errorf("cannot use %T as an object input", value)
	}
}

// ObjectRef registers an owned object input
func (tx *Transaction) ObjectRef(ref types.ObjectRef) types.Argument {
	return tx.addObjectInput(types.OwnedObjectCallArg(ref))
}

// SharedObjectRef registers a shared object input
func (tx *Transaction) SharedObjectRef(ref types.SharedObjectRef) types.Argument {
	return tx.addObjectInput(types.SharedObjectCallArg(ref))
}

// ReceivingRef registers a receiving object input
func (tx *Transaction) ReceivingRef(ref types.ObjectRef) types.Argument {
	return tx.addObjectInput(types.ReceivingObjectCallArg(ref))
}

// addObjectInput appends the input unless an input for the same
// object id exists, in which case the two merge
func (tx *Transaction) addObjectInput(arg types.CallArg) types.Argument {
	id, ok := arg.ObjectID()
	if !ok {
		return tx.data.AddInput(txbuild.InputObject, arg)
	}

	state := tx.data.State()

	for i := range state.Inputs {
		existing := &state.Inputs[i]

		existingID, existingOK := existing.ObjectID()
		if !existingOK || existingID != id {
			continue
		}

		mergeObjectInputs(existing, &arg)

		return types.InputArgument(uint16(i))
	}

	return tx.data.AddInput(txbuild.InputObject, arg)
}

// mergeObjectInputs folds a duplicate object input into the existing
// slot. Resolved forms win over unresolved ones; mutability ORs.
func mergeObjectInputs(existing, incoming *types.CallArg) {
	incomingMutable := false

	switch incoming.Kind {
	case types.CallArgObject:
		if incoming.Object.Kind == types.ObjectArgShared {
			incomingMutable = incoming.Object.SharedObject.Mutable
		}
	case types.CallArgUnresolvedObject:
		incomingMutable = incoming.UnresolvedObject.KnownMutable
	}

	switch existing.Kind {
	case types.CallArgObject:
		if existing.Object.Kind == types.ObjectArgShared && incomingMutable {
			existing.Object.SharedObject.Mutable = true
		}
	case types.CallArgUnresolvedObject:
		if incoming.Kind == types.CallArgObject {
			// the resolved form replaces the placeholder
			knownMutable := existing.UnresolvedObject.KnownMutable
			*existing = *incoming

			if existing.Object.Kind == types.ObjectArgShared && knownMutable {
				existing.Object.SharedObject.Mutable = true
			}

			return
		}

		if incomingMutable {
			existing.UnresolvedObject.KnownMutable = true
		}

		existing.UnresolvedObject.TypeSignatures = append(
			existing.UnresolvedObject.TypeSignatures,
			incoming.UnresolvedObject.TypeSignatures...,
		)
	}
}

// Pure registers an untyped raw value; the normalization stage binds
// it to the schema its use site implies
func (tx *Transaction) Pure(value interface{}) types.Argument {
	return tx.data.AddInput(txbuild.InputPure, types.RawValueCallArg(value, types.RawValuePure))
}

// PureBytes registers an already serialized pure value
func (tx *Transaction) PureBytes(raw []byte) types.Argument {
	return tx.data.AddInput(txbuild.InputPure, types.PureCallArg(raw))
}
