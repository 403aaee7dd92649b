package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movekit-lab/movekit/types"
)

func testServer(t *testing.T, results map[string]string) *JSONRPC {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, ok := results[req.Method]
		if !ok {
			result = `null`
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` +
			strconv.FormatUint(req.ID, 10) + `,"result":` + result + `}`))
	}))

	t.Cleanup(server.Close)

	return NewJSONRPC(&Config{Endpoint: server.URL})
}

func TestJSONRPCGetReferenceGasPrice(t *testing.T) {
	c := testServer(t, map[string]string{
		"mvk_getReferenceGasPrice": `"1000"`,
	})

	price, err := c.GetReferenceGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), price)
}

func TestJSONRPCGetCoins(t *testing.T) {
	c := testServer(t, map[string]string{
		"mvk_getCoins": `{"data":[{"coinObjectId":"0xdef","version":"7","digest":"9a"}]}`,
	})

	coins, err := c.GetCoins(context.Background(), types.MustAddress("0x11"), "0x2::mvk::MVK")
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "0xdef", coins[0].CoinObjectID)
	assert.Equal(t, types.Uint64String(7), coins[0].Version)
}

func TestJSONRPCMultiGetObjects(t *testing.T) {
	c := testServer(t, map[string]string{
		"mvk_multiGetObjects": `[
			{"data":{"objectId":"0xaaa","version":"3","digest":"9a","owner":{"AddressOwner":"0x11"}}},
			{"error":{"code":"notExists","object_id":"0xbad"}}
		]`,
	})

	results, err := c.MultiGetObjects(context.Background(), []string{"0xaaa", "0xbad"}, ObjectQueryOptions{ShowOwner: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NotNil(t, results[0].Data)
	assert.Equal(t, "0x11", *results[0].Data.Owner.AddressOwner)
	require.NotNil(t, results[1].Error)

	// result count must match the request
	_, err = c.MultiGetObjects(context.Background(), []string{"0xaaa"}, ObjectQueryOptions{})
	assert.Error(t, err)
}

func TestJSONRPCDryRun(t *testing.T) {
	c := testServer(t, map[string]string{
		"mvk_dryRunTransactionBlock": `{"effects":{"status":{"status":"success"},"gasUsed":{"computationCost":"1000","storageCost":"100","storageRebate":"50"}}}`,
	})

	result, err := c.DryRunTransactionBlock(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, result.Effects.Status.IsSuccess())
	assert.Equal(t, types.Uint64String(1000), result.Effects.GasUsed.ComputationCost)
}

func TestJSONRPCErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))
	}))
	t.Cleanup(server.Close)

	c := NewJSONRPC(&Config{Endpoint: server.URL})

	_, err := c.GetProtocolConfig(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestNormalizedTypeJSON(t *testing.T) {
	raw := `{"MutableReference":{"Struct":{"address":"0x2","module":"coin","name":"Coin","typeArguments":["U64"]}}}`

	parsed := NormalizedType{}
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))
	require.NotNil(t, parsed.MutableReference)
	require.NotNil(t, parsed.MutableReference.Struct)
	assert.Equal(t, "coin", parsed.MutableReference.Struct.Module)

	primitive := NormalizedType{}
	require.NoError(t, json.Unmarshal([]byte(`"U64"`), &primitive))
	assert.Equal(t, "U64", primitive.Primitive)
}

func TestNormalizedTypeToOpenSignature(t *testing.T) {
	mutableCoin := NormalizedType{
		MutableReference: &NormalizedType{
			Struct: &NormalizedStruct{Address: "0x2", Module: "coin", Name: "Coin"},
		},
	}

	sig, err := mutableCoin.ToOpenSignature()
	require.NoError(t, err)
	assert.Equal(t, types.RefMutable, sig.Ref)
	require.NotNil(t, sig.Body.Datatype)
	assert.Equal(t, "coin", sig.Body.Datatype.Module)

	byValue := NormalizedType{Primitive: "U64"}

	sig, err = byValue.ToOpenSignature()
	require.NoError(t, err)
	assert.True(t, sig.ByValue())
	assert.Equal(t, "u64", sig.Body.Primitive)
}

func TestIsTxContext(t *testing.T) {
	ctxType := NormalizedType{
		MutableReference: &NormalizedType{
			Struct: &NormalizedStruct{Address: "0x2", Module: "tx_context", Name: "TxContext"},
		},
	}

	assert.True(t, ctxType.IsTxContext())
	assert.False(t, (&NormalizedType{Primitive: "U64"}).IsTxContext())
}
