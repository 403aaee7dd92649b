package pipeline

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/movekit-lab/movekit/client"
	"github.com/movekit-lab/movekit/types"
)

// Stage names, in their standard execution order
const (
	StageNormalizeInputs         = "normalizeInputs"
	StageResolveObjectReferences = "resolveObjectReferences"
	StageSetGasPrice             = "setGasPrice"
	StageSetGasBudget            = "setGasBudget"
	StageSetGasPayment           = "setGasPayment"
	StageResolveIntents          = "resolveIntents"
	StageValidate                = "validate"
)

// DefaultCoinType is the native coin used for gas payment
const DefaultCoinType = "0x2::mvk::MVK"

// Env is the shared context of one pipeline run. Stages mutate State
// in place; Limits is resolved lazily on first use.
type Env struct {
	State  *types.TransactionState
	Client client.ChainClient
	Limits *Limits

	// OnlyTransactionKind skips the gas stages, and with them the gas
	// budget dry run
	OnlyTransactionKind bool
}

// Next continues a plugin chain. Passing a non-nil value replaces the
// stage options seen by the successor.
type Next func(ctx context.Context, opts interface{}) error

// Handler is one link of a stage chain: a plugin, or the terminal
// default behavior. A plugin may call next at most once; not calling
// it short-circuits the rest of the chain.
type Handler func(ctx context.Context, env *Env, opts interface{}, next Next) error

// ResolveIntentOptions is the options payload of the resolveIntents
// stage: the intent name being resolved
type ResolveIntentOptions struct {
	Name string
}

// Config wires a Pipeline
type Config struct {
	Client  client.ChainClient
	Logger  hclog.Logger
	Metrics *Metrics
	// CoinType overrides the native coin used for gas payment
	CoinType string
	// SupportedIntents are intent names the execution environment
	// understands natively; they skip resolution
	SupportedIntents []string
}

// Pipeline drives the ordered resolution stages over a transaction
// state. Plugins and intent resolvers extend the default behavior.
type Pipeline struct {
	client           client.ChainClient
	logger           hclog.Logger
	metrics          *Metrics
	coinType         string
	supportedIntents map[string]struct{}

	plugins   map[string][]Handler
	resolvers map[string]Handler
}

// New creates a pipeline from the config, applying defaults for every
// unset field
func New(config *Config) *Pipeline {
	logger := config.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	coinType := config.CoinType
	if coinType == "" {
		coinType = DefaultCoinType
	}

	supported := make(map[string]struct{}, len(config.SupportedIntents))
	for _, name := range config.SupportedIntents {
		supported[name] = struct{}{}
	}

	return &Pipeline{
		client:           config.Client,
		logger:           logger.Named("pipeline"),
		metrics:          config.Metrics,
		coinType:         coinType,
		supportedIntents: supported,
		plugins:          map[string][]Handler{},
		resolvers:        map[string]Handler{},
	}
}

// Use appends a plugin to a stage chain. Plugins run in registration
// order, before the terminal handler.
func (p *Pipeline) Use(stage string, plugin Handler) {
	p.plugins[stage] = append(p.plugins[stage], plugin)
}

// RegisterIntentResolver installs the resolver for an intent name
func (p *Pipeline) RegisterIntentResolver(name string, resolver Handler) error {
	if _, ok := p.resolvers[name]; ok {
		return &IntentResolverConflictError{Name: name}
	}

	p.resolvers[name] = resolver

	return nil
}

// Run executes the standard stage order against the state. Each
// terminal handler is a no-op when its postcondition already holds,
// so re-running after a failure resumes where work is left.
func (p *Pipeline) Run(ctx context.Context, env *Env) error {
	stages := []struct {
		name     string
		terminal Handler
		skip     bool
	}{
		{name: StageNormalizeInputs, terminal: p.normalizeInputs},
		{name: StageResolveObjectReferences, terminal: p.resolveObjectReferences},
		{name: StageSetGasPrice, terminal: p.setGasPrice, skip: env.OnlyTransactionKind},
		{name: StageSetGasBudget, terminal: p.setGasBudget, skip: env.OnlyTransactionKind},
		{name: StageSetGasPayment, terminal: p.setGasPayment, skip: env.OnlyTransactionKind},
	}

	for _, stage := range stages {
		if stage.skip {
			continue
		}

		if err := p.runStage(ctx, stage.name, env, nil, stage.terminal); err != nil {
			return err
		}
	}

	if err := p.resolveIntents(ctx, env); err != nil {
		return err
	}

	return p.runStage(ctx, StageValidate, env, nil, p.validate)
}

// runStage drives a plugin chain and its terminal handler. Every
// handler awaits the completion of its successor.
func (p *Pipeline) runStage(ctx context.Context, name string, env *Env, opts interface{}, terminal Handler) error {
	p.metrics.stageRun(name)
	p.logger.Debug("running stage", "stage", name)

	plugins := p.plugins[name]

	var run func(ctx context.Context, index int, opts interface{}) error

	run = func(ctx context.Context, index int, opts interface{}) error {
		if index == len(plugins) {
			return terminal(ctx, env, opts, func(context.Context, interface{}) error {
				return nil
			})
		}

		called := false

		next := func(ctx context.Context, nextOpts interface{}) error {
			if called {
				return ErrNextCalledTwice
			}

			called = true

			if nextOpts == nil {
				nextOpts = opts
			}

			return run(ctx, index+1, nextOpts)
		}

		return plugins[index](ctx, env, opts, next)
	}

	if err := run(ctx, 0, opts); err != nil {
		p.metrics.stageFailure(name)

		return err
	}

	return nil
}
