package pipeline

import (
	"context"
)

// maxIntentRounds bounds resolver cascades: a resolver may rewrite an
// intent into commands containing further intents; unsupported intents
// still present after this many rounds fail the build
const maxIntentRounds = 16

// resolveIntents runs one resolveIntents stage invocation per
// unsupported intent name present in the state. A name that survives
// its own resolution round fails the build.
func (p *Pipeline) resolveIntents(ctx context.Context, env *Env) error {
	for round := 0; round < maxIntentRounds; round++ {
		pending := p.unsupportedIntents(env)
		if len(pending) == 0 {
			return nil
		}

		for _, name := range pending {
			opts := &ResolveIntentOptions{Name: name}

			if err := p.runStage(ctx, StageResolveIntents, env, opts, p.resolveIntent); err != nil {
				return err
			}

			if p.intentRemains(env, name) {
				return &UnresolvedIntentError{Name: name}
			}
		}
	}

	// the round bound only trips on a resolver cycle
	if pending := p.unsupportedIntents(env); len(pending) > 0 {
		return &UnresolvedIntentError{Name: pending[0]}
	}

	return nil
}

// resolveIntent is the terminal handler of one resolveIntents
// invocation: it delegates to the registered resolver for the name
func (p *Pipeline) resolveIntent(ctx context.Context, env *Env, opts interface{}, next Next) error {
	intentOpts, ok := opts.(*ResolveIntentOptions)
	if !ok || intentOpts == nil {
		return &UnresolvedIntentError{Name: ""}
	}

	resolver, ok := p.resolvers[intentOpts.Name]
	if !ok {
		return &UnresolvedIntentError{Name: intentOpts.Name}
	}

	p.logger.Debug("resolving intent", "name", intentOpts.Name)

	return resolver(ctx, env, opts, next)
}

func (p *Pipeline) unsupportedIntents(env *Env) []string {
	var pending []string

	for _, name := range env.State.IntentNames() {
		if _, supported := p.supportedIntents[name]; !supported {
			pending = append(pending, name)
		}
	}

	return pending
}

func (p *Pipeline) intentRemains(env *Env, name string) bool {
	for _, present := range env.State.IntentNames() {
		if present == name {
			return true
		}
	}

	return false
}
