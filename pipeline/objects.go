package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/movekit-lab/movekit/client"
	"github.com/movekit-lab/movekit/types"
)

// objectFetchChunkSize bounds one multiGetObjects request
const objectFetchChunkSize = 50

// resolveObjectReferences is the terminal handler of the second stage:
// every UnresolvedObject input is replaced by its resolved object
// argument, using owner metadata fetched from the chain
func (p *Pipeline) resolveObjectReferences(ctx context.Context, env *Env, _ interface{}, _ Next) error {
	var ids []string

	seen := map[string]struct{}{}

	for i := range env.State.Inputs {
		input := &env.State.Inputs[i]
		if input.Kind != types.CallArgUnresolvedObject {
			continue
		}

		id, err := types.NormalizeAddress(input.UnresolvedObject.Value)
		if err != nil {
			return err
		}

		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}

			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return nil
	}

	objects, err := p.fetchObjects(ctx, env.Client, ids)
	if err != nil {
		return err
	}

	var invalid []string

	byID := make(map[string]*client.ObjectData, len(ids))

	for i, result := range objects {
		if result.Error != nil || result.Data == nil {
			invalid = append(invalid, ids[i])

			continue
		}

		byID[ids[i]] = result.Data
	}

	if len(invalid) > 0 {
		return &InvalidObjectInputsError{IDs: invalid}
	}

	for i := range env.State.Inputs {
		input := &env.State.Inputs[i]
		if input.Kind != types.CallArgUnresolvedObject {
			continue
		}

		id, err := types.NormalizeAddress(input.UnresolvedObject.Value)
		if err != nil {
			return err
		}

		resolved, err := resolveObjectInput(input.UnresolvedObject, byID[id])
		if err != nil {
			return err
		}

		env.State.Inputs[i] = resolved
	}

	return nil
}

// fetchObjects splits the id list into chunks, issues the chunk
// fetches concurrently, and joins the results back in request order
func (p *Pipeline) fetchObjects(ctx context.Context, c client.ChainClient, ids []string) ([]client.ObjectResult, error) {
	results := make([]client.ObjectResult, len(ids))

	group, groupCtx := errgroup.WithContext(ctx)

	for start := 0; start < len(ids); start += objectFetchChunkSize {
		start := start

		end := start + objectFetchChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		group.Go(func() error {
			chunk, err := c.MultiGetObjects(groupCtx, ids[start:end], client.ObjectQueryOptions{ShowOwner: true})
			if err != nil {
				return err
			}

			copy(results[start:end], chunk)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func resolveObjectInput(unresolved *types.UnresolvedObject, data *client.ObjectData) (types.CallArg, error) {
	ref, err := data.Ref()
	if err != nil {
		return types.CallArg{}, err
	}

	var initialSharedVersion *uint64

	if data.Owner != nil && data.Owner.Shared != nil {
		v := uint64(data.Owner.Shared.InitialSharedVersion)
		initialSharedVersion = &v
	}

	if initialSharedVersion != nil {
		return types.SharedObjectCallArg(types.SharedObjectRef{
			ObjectID:             ref.ObjectID,
			InitialSharedVersion: *initialSharedVersion,
			Mutable:              isUsedAsMutable(unresolved),
		}), nil
	}

	if isUsedAsReceiving(unresolved) {
		return types.ReceivingObjectCallArg(ref), nil
	}

	return types.OwnedObjectCallArg(ref), nil
}

// isUsedAsMutable holds when the input was requested mutable up
// front, or any use site takes it by value or by mutable reference
func isUsedAsMutable(unresolved *types.UnresolvedObject) bool {
	if unresolved.KnownMutable {
		return true
	}

	for i := range unresolved.TypeSignatures {
		sig := &unresolved.TypeSignatures[i]

		if sig.ByValue() || sig.Ref == types.RefMutable {
			return true
		}
	}

	return false
}

func isUsedAsReceiving(unresolved *types.UnresolvedObject) bool {
	for i := range unresolved.TypeSignatures {
		if unresolved.TypeSignatures[i].Body.IsReceiving() {
			return true
		}
	}

	return false
}
