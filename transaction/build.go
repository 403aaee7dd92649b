package transaction

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"

	"github.com/movekit-lab/movekit/client"
	"github.com/movekit-lab/movekit/pipeline"
	"github.com/movekit-lab/movekit/txbuild"
	"github.com/movekit-lab/movekit/types"
)

// BuildOptions configure resolution and serialization of one build
type BuildOptions struct {
	// Client serves the chain lookups the pipeline needs. Builds with
	// every field already resolved work without one.
	Client client.ChainClient

	// OnlyTransactionKind serializes the bare kind payload and skips
	// the gas stages
	OnlyTransactionKind bool

	// SupportedIntents are intent names the execution environment
	// accepts natively, exempting them from resolution
	SupportedIntents []string

	// CoinType overrides the native coin used for gas selection
	CoinType string

	Logger  hclog.Logger
	Metrics *pipeline.Metrics
}

// prepare runs the resolution pipeline over the owned state
func (tx *Transaction) prepare(ctx context.Context, opts *BuildOptions) (*pipeline.Env, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	p := pipeline.New(&pipeline.Config{
		Client:           opts.Client,
		Logger:           opts.Logger,
		Metrics:          opts.Metrics,
		CoinType:         opts.CoinType,
		SupportedIntents: opts.SupportedIntents,
	})

	for stage, plugins := range tx.plugins {
		for _, plugin := range plugins {
			p.Use(stage, plugin)
		}
	}

	for name, resolver := range tx.resolvers {
		if err := p.RegisterIntentResolver(name, resolver); err != nil {
			return nil, err
		}
	}

	env := &pipeline.Env{
		State:               tx.data.State(),
		Client:              opts.Client,
		OnlyTransactionKind: opts.OnlyTransactionKind,
	}

	if err := p.Run(ctx, env); err != nil {
		return nil, err
	}

	return env, nil
}

// Build resolves the transaction and serializes it to canonical bytes
func (tx *Transaction) Build(ctx context.Context, opts *BuildOptions) ([]byte, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	env, err := tx.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	maxSize := pipeline.DefaultMaxTxSizeBytes
	if env.Limits != nil {
		maxSize = env.Limits.MaxTxSizeBytes
	}

	return tx.data.Build(&txbuild.BuildOptions{
		MaxSizeBytes:        maxSize,
		OnlyTransactionKind: opts.OnlyTransactionKind,
	})
}

// GetDigest resolves, builds, and returns the transaction digest
func (tx *Transaction) GetDigest(ctx context.Context, opts *BuildOptions) (string, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	if opts.OnlyTransactionKind {
		return "", errDigestOfKind
	}

	encoded, err := tx.Build(ctx, opts)
	if err != nil {
		return "", err
	}

	return types.TransactionDigest(encoded), nil
}

// Serialize returns the JSON snapshot of the current state, without
// running any resolution
func (tx *Transaction) Serialize() ([]byte, error) {
	snapshot, err := tx.data.Snapshot()
	if err != nil {
		return nil, err
	}

	return json.Marshal(snapshot)
}

// ToJSON runs the non-gas preparation stages, then returns the
// resolved snapshot as indented JSON
func (tx *Transaction) ToJSON(ctx context.Context, opts *BuildOptions) ([]byte, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	prepOpts := *opts
	prepOpts.OnlyTransactionKind = true

	if _, err := tx.prepare(ctx, &prepOpts); err != nil {
		return nil, err
	}

	snapshot, err := tx.data.Snapshot()
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(snapshot, "", "  ")
}
