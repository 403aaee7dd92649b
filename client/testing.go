package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/movekit-lab/movekit/types"
)

// MockClient is a programmable in-memory ChainClient for tests
type MockClient struct {
	lock sync.Mutex

	GasPrice  uint64
	Coins     []CoinInfo
	Objects   map[string]ObjectResult
	Functions map[string]*NormalizedFunction
	DryRun    *DryRunResult
	Protocol  *ProtocolConfig

	calls map[string]int
}

// NewMockClient creates a mock with a successful default dry run and
// a reference gas price of 1000
func NewMockClient() *MockClient {
	return &MockClient{
		GasPrice:  1000,
		Objects:   map[string]ObjectResult{},
		Functions: map[string]*NormalizedFunction{},
		DryRun: &DryRunResult{
			Effects: DryRunEffects{
				Status: ExecutionStatus{Status: "success"},
				GasUsed: GasUsed{
					ComputationCost: 1000000,
					StorageCost:     100,
					StorageRebate:   50,
				},
			},
		},
		calls: map[string]int{},
	}
}

func (m *MockClient) record(method string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.calls == nil {
		m.calls = map[string]int{}
	}

	m.calls[method]++
}

// CallCount reports how often one RPC method ran
func (m *MockClient) CallCount(method string) int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.calls[method]
}

// AddOwnedObject registers an address-owned object
func (m *MockClient) AddOwnedObject(id, owner string, version uint64, digest string) {
	canonical, _ := types.NormalizeAddress(id)

	m.Objects[canonical] = ObjectResult{
		Data: &ObjectData{
			ObjectID: canonical,
			Version:  types.Uint64String(version),
			Digest:   digest,
			Owner:    &ObjectOwner{AddressOwner: &owner},
		},
	}
}

// AddSharedObject registers a shared object
func (m *MockClient) AddSharedObject(id string, initialSharedVersion, version uint64, digest string) {
	canonical, _ := types.NormalizeAddress(id)

	m.Objects[canonical] = ObjectResult{
		Data: &ObjectData{
			ObjectID: canonical,
			Version:  types.Uint64String(version),
			Digest:   digest,
			Owner: &ObjectOwner{
				Shared: &SharedOwner{InitialSharedVersion: types.Uint64String(initialSharedVersion)},
			},
		},
	}
}

// AddFunction registers a normalized function signature under its
// "package::module::function" target, canonicalizing the package id
func (m *MockClient) AddFunction(target string, params ...NormalizedType) {
	pkg, module, function, err := types.SplitTarget(target)
	if err != nil {
		panic(err)
	}

	key := fmt.Sprintf("%s::%s::%s", pkg.String(), module, function)
	m.Functions[key] = &NormalizedFunction{Parameters: params}
}

func (m *MockClient) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	m.record("getReferenceGasPrice")

	return m.GasPrice, nil
}

func (m *MockClient) GetCoins(ctx context.Context, owner types.Address, coinType string) ([]CoinInfo, error) {
	m.record("getCoins")

	return m.Coins, nil
}

func (m *MockClient) MultiGetObjects(ctx context.Context, ids []string, opts ObjectQueryOptions) ([]ObjectResult, error) {
	m.record("multiGetObjects")

	results := make([]ObjectResult, len(ids))

	for i, id := range ids {
		result, ok := m.Objects[id]
		if !ok {
			result = ObjectResult{Error: &ObjectError{Code: "notExists", ObjectID: id}}
		}

		results[i] = result
	}

	return results, nil
}

func (m *MockClient) GetNormalizedMoveFunction(ctx context.Context, pkg, module, function string) (*NormalizedFunction, error) {
	m.record("getNormalizedMoveFunction")

	fn, ok := m.Functions[fmt.Sprintf("%s::%s::%s", pkg, module, function)]
	if !ok {
		return nil, fmt.Errorf("unknown function %s::%s::%s", pkg, module, function)
	}

	return fn, nil
}

func (m *MockClient) DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*DryRunResult, error) {
	m.record("dryRunTransactionBlock")

	return m.DryRun, nil
}

func (m *MockClient) GetProtocolConfig(ctx context.Context) (*ProtocolConfig, error) {
	m.record("getProtocolConfig")

	if m.Protocol == nil {
		return nil, fmt.Errorf("protocol config unavailable")
	}

	return m.Protocol, nil
}

var _ ChainClient = (*MockClient)(nil)
