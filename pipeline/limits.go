package pipeline

import (
	"context"

	"github.com/movekit-lab/movekit/client"
)

// Offline protocol limits, used when the fullnode cannot serve its
// protocol configuration
const (
	DefaultMaxTxGas            = 50_000_000_000
	DefaultMaxGasObjects       = 256
	DefaultMaxTxSizeBytes      = 131072
	DefaultMaxPureArgumentSize = 16384
)

// Protocol configuration attribute keys
const (
	attrMaxTxGas            = "max_tx_gas"
	attrMaxGasObjects       = "max_gas_payment_objects"
	attrMaxTxSizeBytes      = "max_tx_size_bytes"
	attrMaxPureArgumentSize = "max_pure_argument_size"
)

// Limits are the protocol bounds the pipeline enforces
type Limits struct {
	MaxTxGas            uint64
	MaxGasObjects       int
	MaxTxSizeBytes      int
	MaxPureArgumentSize int
}

// DefaultLimits returns the offline defaults
func DefaultLimits() *Limits {
	return &Limits{
		MaxTxGas:            DefaultMaxTxGas,
		MaxGasObjects:       DefaultMaxGasObjects,
		MaxTxSizeBytes:      DefaultMaxTxSizeBytes,
		MaxPureArgumentSize: DefaultMaxPureArgumentSize,
	}
}

// LimitsFromProtocolConfig maps chain attributes onto the offline
// defaults; unknown or missing keys keep their default
func LimitsFromProtocolConfig(config *client.ProtocolConfig) *Limits {
	limits := DefaultLimits()

	if config == nil {
		return limits
	}

	if v, ok := attrUint64(config, attrMaxTxGas); ok {
		limits.MaxTxGas = v
	}

	if v, ok := attrUint64(config, attrMaxGasObjects); ok {
		limits.MaxGasObjects = int(v)
	}

	if v, ok := attrUint64(config, attrMaxTxSizeBytes); ok {
		limits.MaxTxSizeBytes = int(v)
	}

	if v, ok := attrUint64(config, attrMaxPureArgumentSize); ok {
		limits.MaxPureArgumentSize = int(v)
	}

	return limits
}

func attrUint64(config *client.ProtocolConfig, key string) (uint64, bool) {
	attr, ok := config.Attributes[key]
	if !ok {
		return 0, false
	}

	return attr.Uint64()
}

// fetchLimits queries the protocol configuration once per run,
// falling back to the offline defaults on failure
func (p *Pipeline) fetchLimits(ctx context.Context, env *Env) *Limits {
	if env.Limits != nil {
		return env.Limits
	}

	if env.Client == nil {
		env.Limits = DefaultLimits()

		return env.Limits
	}

	config, err := env.Client.GetProtocolConfig(ctx)
	if err != nil {
		p.logger.Warn("protocol config unavailable, using offline limits", "err", err)

		env.Limits = DefaultLimits()

		return env.Limits
	}

	env.Limits = LimitsFromProtocolConfig(config)

	return env.Limits
}
