package transaction

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movekit-lab/movekit/client"
	"github.com/movekit-lab/movekit/pipeline"
	"github.com/movekit-lab/movekit/txbuild"
	"github.com/movekit-lab/movekit/types"
)

func testDigest(seed byte) string {
	buf := make([]byte, types.ObjectDigestLength)
	for i := range buf {
		buf[i] = seed
	}

	return base58.Encode(buf)
}

func TestObjectDedupe(t *testing.T) {
	tx := NewTransaction()

	first, err := tx.Object("0xaaa")
	require.NoError(t, err)

	second, err := tx.Object("0x0aaa")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, tx.BlockData().State().Inputs, 1)

	// a different object gets its own slot
	third, err := tx.Object("0xbbb")
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
	assert.Len(t, tx.BlockData().State().Inputs, 2)
}

func TestObjectDedupeMutableOr(t *testing.T) {
	tx := NewTransaction()

	shared := types.SharedObjectRef{
		ObjectID:             types.MustAddress("0xccc"),
		InitialSharedVersion: 9,
		Mutable:              false,
	}

	first := tx.SharedObjectRef(shared)

	shared.Mutable = true
	second := tx.SharedObjectRef(shared)

	assert.Equal(t, first, second)

	state := tx.BlockData().State()
	require.Len(t, state.Inputs, 1)
	assert.True(t, state.Inputs[0].Object.SharedObject.Mutable)
}

func TestObjectUpgradesUnresolvedToResolved(t *testing.T) {
	tx := NewTransaction()

	_, err := tx.Object("0xccc")
	require.NoError(t, err)

	tx.SharedObjectRef(types.SharedObjectRef{
		ObjectID:             types.MustAddress("0xccc"),
		InitialSharedVersion: 9,
		Mutable:              true,
	})

	state := tx.BlockData().State()
	require.Len(t, state.Inputs, 1)
	require.Equal(t, types.CallArgObject, state.Inputs[0].Kind)
	assert.True(t, state.Inputs[0].Object.SharedObject.Mutable)
}

func TestObjectArgumentForms(t *testing.T) {
	tx := NewTransaction()

	viaFunc, err := tx.Object(ArgFunc(func(tx *Transaction) (types.Argument, error) {
		return tx.Object("0xaaa")
	}))
	require.NoError(t, err)
	assert.Equal(t, types.InputArgument(0), viaFunc)

	passthrough, err := tx.Object(viaFunc)
	require.NoError(t, err)
	assert.Equal(t, viaFunc, passthrough)

	_, err = tx.Object(7)
	assert.Error(t, err)

	_, err = tx.Object(types.ResultArgument(0))
	assert.Error(t, err)
}

func TestResultHandles(t *testing.T) {
	tx := NewTransaction()

	result, err := tx.SplitCoins(tx.Gas(), uint64(100), uint64(200))
	require.NoError(t, err)

	assert.Equal(t, types.ResultArgument(0), result.Arg())
	assert.Equal(t, types.NestedResultArgument(0, 0), result.At(0))
	assert.Equal(t, types.NestedResultArgument(0, 1), result.At(1))

	// amounts registered as pure u64 inputs
	state := tx.BlockData().State()
	require.Len(t, state.Inputs, 2)
	assert.Equal(t, []byte{100, 0, 0, 0, 0, 0, 0, 0}, state.Inputs[0].Pure.Bytes)
}

func TestIntentResultHandles(t *testing.T) {
	tx := NewTransaction()

	result := tx.AddIntent("foo", nil, nil)

	assert.Equal(t, types.IntentResultArgument(0), result.Arg())
	assert.Equal(t, types.NestedIntentResultArgument(0, 1), result.At(1))
}

func TestPureHelpers(t *testing.T) {
	tx := NewTransaction()

	tx.PureBool(true)
	tx.PureU8(7)
	tx.PureU64(42)
	tx.PureString("hi")

	addrArg, err := tx.PureAddress("0xbbb")
	require.NoError(t, err)
	assert.Equal(t, types.InputArgument(4), addrArg)

	u128Arg, err := tx.PureU128("256")
	require.NoError(t, err)
	assert.Equal(t, types.InputArgument(5), u128Arg)

	inputs := tx.BlockData().State().Inputs
	assert.Equal(t, []byte{1}, inputs[0].Pure.Bytes)
	assert.Equal(t, []byte{7}, inputs[1].Pure.Bytes)
	assert.Equal(t, []byte{42, 0, 0, 0, 0, 0, 0, 0}, inputs[2].Pure.Bytes)
	assert.Equal(t, []byte{2, 'h', 'i'}, inputs[3].Pure.Bytes)
	assert.Len(t, inputs[5].Pure.Bytes, 16)
}

// Transfer of one coin, end to end: object resolution, reference gas
// price, dry-run budget, and coin selection all come from the mock
func TestBuildTransferEndToEnd(t *testing.T) {
	mock := client.NewMockClient()
	mock.AddOwnedObject("0xaaa", "0x11", 3, testDigest(0x01))
	mock.Coins = []client.CoinInfo{
		{CoinObjectID: types.MustAddress("0xdef").String(), Version: 7, Digest: testDigest(0x02)},
	}

	tx := NewTransaction()
	tx.SetSender(types.MustAddress("0x11"))

	obj, err := tx.Object("0xaaa")
	require.NoError(t, err)

	_, err = tx.TransferObjects([]interface{}{obj}, "0xbbb")
	require.NoError(t, err)

	ctx := context.Background()

	encoded, err := tx.Build(ctx, &BuildOptions{Client: mock})
	require.NoError(t, err)

	state := tx.BlockData().State()
	assert.Equal(t, types.Uint64String(1000), *state.GasData.Price)
	assert.Equal(t, types.Uint64String(2000050), *state.GasData.Budget)
	require.Len(t, state.GasData.Payment, 1)
	assert.Equal(t, types.MustAddress("0xdef"), state.GasData.Payment[0].ObjectID)

	decoded, err := types.DecodeTransactionData(encoded)
	require.NoError(t, err)
	assert.Equal(t, types.MustAddress("0x11"), decoded.Sender)
	assert.Equal(t, uint64(2000050), decoded.GasBudget)

	// digest is deterministic and repeated builds are byte-identical
	digest, err := tx.GetDigest(ctx, &BuildOptions{Client: mock})
	require.NoError(t, err)
	assert.Equal(t, types.TransactionDigest(encoded), digest)

	again, err := tx.Build(ctx, &BuildOptions{Client: mock})
	require.NoError(t, err)
	assert.Equal(t, encoded, again)

	// idempotence: the resolved state does not re-query the chain
	assert.Equal(t, 1, mock.CallCount("getReferenceGasPrice"))
	assert.Equal(t, 1, mock.CallCount("dryRunTransactionBlock"))
	assert.Equal(t, 1, mock.CallCount("getCoins"))
	assert.Equal(t, 1, mock.CallCount("multiGetObjects"))

	// round trip per the universal invariant
	restored, err := FromBytes(encoded)
	require.NoError(t, err)

	rebuilt, err := restored.Build(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, encoded, rebuilt)
}

// Shared-object mutable upgrade, end to end: an object added by id
// and used as &mut resolves to a single mutable shared input
func TestBuildSharedMutableEndToEnd(t *testing.T) {
	mock := client.NewMockClient()
	mock.AddSharedObject("0xccc", 9, 12, testDigest(0x03))
	mock.AddFunction("0x2::counter::increment",
		client.NormalizedType{
			MutableReference: &client.NormalizedType{
				Struct: &client.NormalizedStruct{Address: "0x2", Module: "counter", Name: "Counter"},
			},
		})

	tx := NewTransaction()
	tx.SetSender(types.MustAddress("0x11"))

	_, err := tx.MoveCall("0x2::counter::increment", nil, "0xccc")
	require.NoError(t, err)

	_, err = tx.Build(context.Background(), &BuildOptions{Client: mock, OnlyTransactionKind: true})
	require.NoError(t, err)

	state := tx.BlockData().State()
	require.Len(t, state.Inputs, 1)
	require.Equal(t, types.ObjectArgShared, state.Inputs[0].Object.Kind)
	assert.True(t, state.Inputs[0].Object.SharedObject.Mutable)
	assert.Equal(t, uint64(9), state.Inputs[0].Object.SharedObject.InitialSharedVersion)
}

// Raw-value typing, end to end: pure(42) against a u64 parameter
func TestBuildRawValueTyping(t *testing.T) {
	mock := client.NewMockClient()
	mock.AddFunction("0x2::counter::set", client.NormalizedType{Primitive: "U64"})

	tx := NewTransaction()
	tx.SetSender(types.MustAddress("0x11"))

	_, err := tx.MoveCall("0x2::counter::set", nil, tx.Pure(42))
	require.NoError(t, err)

	_, err = tx.Build(context.Background(), &BuildOptions{Client: mock, OnlyTransactionKind: true})
	require.NoError(t, err)

	input := tx.BlockData().State().Inputs[0]
	require.Equal(t, types.CallArgPure, input.Kind)
	assert.Equal(t, []byte{42, 0, 0, 0, 0, 0, 0, 0}, input.Pure.Bytes)
}

// Unsupported intent fails the build; a registered resolver rewrites
// it and later references shift with the splice
func TestBuildIntentResolution(t *testing.T) {
	mock := client.NewMockClient()

	newTx := func() *Transaction {
		tx := NewTransaction()
		tx.SetSender(types.MustAddress("0x11"))

		tx.AddIntent("foo", nil, nil)

		_, err := tx.SplitCoins(tx.Gas(), uint64(1))
		require.NoError(t, err)

		_, err = tx.TransferObjects([]interface{}{types.ResultArgument(1)}, "0xbbb")
		require.NoError(t, err)

		return tx
	}

	tx := newTx()

	_, err := tx.Build(context.Background(), &BuildOptions{Client: mock, OnlyTransactionKind: true})

	var unresolved *pipeline.UnresolvedIntentError

	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "foo", unresolved.Name)

	tx = newTx()

	require.NoError(t, tx.AddIntentResolver("foo",
		func(ctx context.Context, env *pipeline.Env, opts interface{}, next pipeline.Next) error {
			return txbuild.FromState(env.State).ReplaceCommand(0,
				types.SplitCoinsCommandOf(types.GasCoinArgument(), nil),
				types.MergeCoinsCommandOf(types.GasCoinArgument(), nil),
			)
		}))

	_, err = tx.Build(context.Background(), &BuildOptions{Client: mock, OnlyTransactionKind: true})
	require.NoError(t, err)

	commands := tx.BlockData().State().Commands
	require.Len(t, commands, 4)

	// the transfer referenced the split at index 1, now at index 2
	assert.Equal(t, types.ResultArgument(2), commands[3].TransferObjects.Objects[0])
}

func TestAddIntentResolverConflict(t *testing.T) {
	tx := NewTransaction()

	noop := func(ctx context.Context, env *pipeline.Env, opts interface{}, next pipeline.Next) error {
		return nil
	}

	require.NoError(t, tx.AddIntentResolver("foo", noop))
	assert.Error(t, tx.AddIntentResolver("foo", noop))
}

func TestSetters(t *testing.T) {
	tx := NewTransaction()

	tx.SetSender(types.MustAddress("0x11"))
	tx.SetSenderIfNotSet(types.MustAddress("0x22"))

	state := tx.BlockData().State()
	assert.Equal(t, types.MustAddress("0x11"), *state.Sender)

	tx.SetGasPrice(7)
	tx.SetGasBudget(9)
	tx.SetGasBudgetIfNotSet(100)
	tx.SetGasOwner(types.MustAddress("0x33"))
	tx.SetExpiration(types.EpochExpiration(4))
	tx.SetGasPayment(nil)

	assert.Equal(t, types.Uint64String(7), *state.GasData.Price)
	assert.Equal(t, types.Uint64String(9), *state.GasData.Budget)
	assert.Equal(t, types.MustAddress("0x33"), *state.GasData.Owner)
	assert.Equal(t, uint64(4), state.Expiration.Epoch)
	assert.NotNil(t, state.GasData.Payment)
	assert.Empty(t, state.GasData.Payment)
}

func TestSerializeRestore(t *testing.T) {
	tx := NewTransaction()
	tx.SetSender(types.MustAddress("0x11"))

	_, err := tx.SplitCoins(tx.Gas(), uint64(5))
	require.NoError(t, err)

	raw, err := tx.Serialize()
	require.NoError(t, err)

	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, float64(2), snapshot["version"])

	restored, err := Restore(raw)
	require.NoError(t, err)
	assert.Equal(t, tx.BlockData().State().Commands, restored.BlockData().State().Commands)
}

func TestToJSONRunsPreparation(t *testing.T) {
	mock := client.NewMockClient()
	mock.AddOwnedObject("0xaaa", "0x11", 3, testDigest(0x04))

	tx := NewTransaction()
	tx.SetSender(types.MustAddress("0x11"))

	_, err := tx.TransferObjects([]interface{}{"0xaaa"}, "0xbbb")
	require.NoError(t, err)

	raw, err := tx.ToJSON(context.Background(), &BuildOptions{Client: mock})
	require.NoError(t, err)

	restored, err := Restore(raw)
	require.NoError(t, err)

	// the object reference resolved, but no gas work happened
	assert.Equal(t, types.CallArgObject, restored.BlockData().State().Inputs[0].Kind)
	assert.Zero(t, mock.CallCount("getCoins"))
	assert.Zero(t, mock.CallCount("dryRunTransactionBlock"))
}

type staticSigner struct {
	signature []byte
}

func (s *staticSigner) Sign(data []byte) ([]byte, error) {
	return s.signature, nil
}

func TestSign(t *testing.T) {
	mock := client.NewMockClient()
	mock.Coins = []client.CoinInfo{
		{CoinObjectID: types.MustAddress("0xdef").String(), Version: 7, Digest: testDigest(0x05)},
	}

	tx := NewTransaction()
	tx.SetSender(types.MustAddress("0x11"))

	_, err := tx.SplitCoins(tx.Gas(), uint64(5))
	require.NoError(t, err)

	signed, err := tx.Sign(context.Background(), &staticSigner{signature: []byte{9}}, &BuildOptions{Client: mock})
	require.NoError(t, err)

	assert.Equal(t, []byte{9}, signed.Signature)
	assert.Equal(t, types.TransactionDigest(signed.Bytes), signed.Digest)

	_, err = tx.Sign(context.Background(), &staticSigner{}, &BuildOptions{OnlyTransactionKind: true})
	assert.Error(t, err)
}
