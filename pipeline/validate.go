package pipeline

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/movekit-lab/movekit/types"
)

// validate is the terminal handler of the final stage: it enforces the
// pure-argument size bound over every input
func (p *Pipeline) validate(ctx context.Context, env *Env, _ interface{}, _ Next) error {
	limits := p.fetchLimits(ctx, env)

	var result *multierror.Error

	for i := range env.State.Inputs {
		input := &env.State.Inputs[i]
		if input.Kind != types.CallArgPure {
			continue
		}

		if size := len(input.Pure.Bytes); size > limits.MaxPureArgumentSize {
			result = multierror.Append(result, &PureTooLargeError{
				Index: i,
				Got:   size,
				Max:   limits.MaxPureArgumentSize,
			})
		}
	}

	return result.ErrorOrNil()
}
