package transaction

import (
	"github.com/movekit-lab/movekit/types"
)

// Result is the handle returned by Add. Used directly it stands for
// the whole result of the command; At addresses individual result
// slots. Handles created before a command splice keep referring to
// the same logical result.
type Result struct {
	intent bool
	index  uint16
	nested []types.Argument
}

// Arg is the whole-result argument
func (r *Result) Arg() types.Argument {
	if r.intent {
		return types.IntentResultArgument(r.index)
	}

	return types.ResultArgument(r.index)
}

// At is the argument for the n-th result slot, growing the handle's
// nested vector on first access
func (r *Result) At(n int) types.Argument {
	for len(r.nested) <= n {
		i := uint16(len(r.nested))

		if r.intent {
			r.nested = append(r.nested, types.NestedIntentResultArgument(r.index, i))
		} else {
			r.nested = append(r.nested, types.NestedResultArgument(r.index, i))
		}
	}

	return r.nested[n]
}

// Add appends a command and returns its result handle
func (tx *Transaction) Add(cmd types.Command) *Result {
	index := tx.data.AddCommand(cmd)

	return &Result{
		intent: cmd.Kind == types.CommandTransactionIntent,
		index:  index,
	}
}

// AddIntent appends a symbolic intent command; a registered resolver
// rewrites it into primitive commands during build
func (tx *Transaction) AddIntent(name string, inputs map[string]types.IntentInput, data []byte) *Result {
	return tx.Add(types.TransactionIntentCommand(types.TransactionIntent{
		Name:   name,
		Inputs: inputs,
		Data:   data,
	}))
}
