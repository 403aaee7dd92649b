package client

import (
	"context"

	"github.com/movekit-lab/movekit/types"
)

// ChainClient is the read surface the resolution pipeline needs from a
// fullnode. Implementations must be safe for sequential reuse; the
// pipeline never issues two calls on one client concurrently except
// where documented (object and signature fetches).
type ChainClient interface {
	// GetReferenceGasPrice returns the current epoch reference gas price
	GetReferenceGasPrice(ctx context.Context) (uint64, error)

	// GetCoins lists native-coin objects held by an owner
	GetCoins(ctx context.Context, owner types.Address, coinType string) ([]CoinInfo, error)

	// MultiGetObjects fetches object metadata for a batch of ids
	MultiGetObjects(ctx context.Context, ids []string, opts ObjectQueryOptions) ([]ObjectResult, error)

	// GetNormalizedMoveFunction returns the normalized signature of a
	// public or entry Move function
	GetNormalizedMoveFunction(ctx context.Context, pkg, module, function string) (*NormalizedFunction, error)

	// DryRunTransactionBlock simulates execution of serialized
	// transaction bytes and reports gas usage
	DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*DryRunResult, error)

	// GetProtocolConfig returns the active protocol limits
	GetProtocolConfig(ctx context.Context) (*ProtocolConfig, error)
}

// CoinInfo is one coin object owned by an address
type CoinInfo struct {
	CoinObjectID string             `json:"coinObjectId"`
	Version      types.Uint64String `json:"version"`
	Digest       string             `json:"digest"`
	Balance      types.Uint64String `json:"balance,omitempty"`
}

// ObjectRef converts the coin listing entry to an object reference
func (c *CoinInfo) ObjectRef() (types.ObjectRef, error) {
	id, err := types.StringToAddress(c.CoinObjectID)
	if err != nil {
		return types.ObjectRef{}, err
	}

	return types.ObjectRef{ObjectID: id, Version: c.Version, Digest: c.Digest}, nil
}

// ObjectQueryOptions selects the detail level of an object fetch
type ObjectQueryOptions struct {
	ShowOwner bool `json:"showOwner"`
}

// ObjectResult is the per-id outcome of a batched object fetch
type ObjectResult struct {
	Data  *ObjectData  `json:"data,omitempty"`
	Error *ObjectError `json:"error,omitempty"`
}

// ObjectData is the metadata of one live object version
type ObjectData struct {
	ObjectID string             `json:"objectId"`
	Version  types.Uint64String `json:"version"`
	Digest   string             `json:"digest"`
	Owner    *ObjectOwner       `json:"owner,omitempty"`
}

// Ref converts the metadata to an object reference
func (d *ObjectData) Ref() (types.ObjectRef, error) {
	id, err := types.StringToAddress(d.ObjectID)
	if err != nil {
		return types.ObjectRef{}, err
	}

	return types.ObjectRef{ObjectID: id, Version: d.Version, Digest: d.Digest}, nil
}

// ObjectError describes why an object could not be served
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

// ObjectOwner mirrors the chain's owner sum: exactly one field set
type ObjectOwner struct {
	AddressOwner *string      `json:"AddressOwner,omitempty"`
	ObjectOwner  *string      `json:"ObjectOwner,omitempty"`
	Shared       *SharedOwner `json:"Shared,omitempty"`
	Immutable    bool         `json:"Immutable,omitempty"`
}

// SharedOwner carries the version at which the object became shared
type SharedOwner struct {
	InitialSharedVersion types.Uint64String `json:"initial_shared_version"`
}

// NormalizedFunction is the normalized signature of a Move function
type NormalizedFunction struct {
	Visibility string           `json:"visibility,omitempty"`
	IsEntry    bool             `json:"isEntry,omitempty"`
	Parameters []NormalizedType `json:"parameters"`
	Return     []NormalizedType `json:"return,omitempty"`
}

// DryRunResult is the trimmed dry-run response: execution status and
// gas usage
type DryRunResult struct {
	Effects DryRunEffects `json:"effects"`
}

type DryRunEffects struct {
	Status  ExecutionStatus `json:"status"`
	GasUsed GasUsed         `json:"gasUsed"`
}

type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *ExecutionStatus) IsSuccess() bool {
	return s.Status == "success"
}

type GasUsed struct {
	ComputationCost types.Uint64String `json:"computationCost"`
	StorageCost     types.Uint64String `json:"storageCost"`
	StorageRebate   types.Uint64String `json:"storageRebate"`
}

// ProtocolConfig is the active protocol configuration, keyed by
// attribute name
type ProtocolConfig struct {
	ProtocolVersion types.Uint64String           `json:"protocolVersion,omitempty"`
	Attributes      map[string]ProtocolAttribute `json:"attributes"`
}

// ProtocolAttribute is a typed config value; one field is set
type ProtocolAttribute struct {
	U64 *types.Uint64String `json:"u64,omitempty"`
	U32 *uint32             `json:"u32,omitempty"`
	F64 *float64            `json:"f64,omitempty"`
}

// Uint64 reads the attribute as a u64 when it carries one
func (a *ProtocolAttribute) Uint64() (uint64, bool) {
	switch {
	case a.U64 != nil:
		return uint64(*a.U64), true
	case a.U32 != nil:
		return uint64(*a.U32), true
	default:
		return 0, false
	}
}
