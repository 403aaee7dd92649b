package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStateV1(t *testing.T) *StateV1 {
	t.Helper()

	raw := `{
		"version": 1,
		"sender": "0x11",
		"gasConfig": {"price": "1000"},
		"inputs": [
			{"kind": "Pure", "index": 0, "value": {"bytes": "AQID"}, "type": "pure"},
			{"kind": "Object", "index": 1, "value": {"ImmOrOwned": {"objectId": "0xaaa", "version": "3", "digest": "` + testDigest(0x10) + `"}}, "type": "object"},
			{"kind": "Input", "index": 2, "value": "0xbbb", "type": "object"},
			{"kind": "Input", "index": 3, "value": 42, "type": "pure"}
		],
		"transactions": [
			{"kind": "SplitCoins", "coin": {"$kind": "GasCoin", "GasCoin": true}, "amounts": [{"$kind": "Input", "Input": 3}]},
			{"kind": "MoveCall", "target": "0x2::pay::keep", "typeArguments": ["u64"], "arguments": [{"$kind": "Result", "Result": 0}]},
			{"kind":"CustomThing","payload":{"x":1}}
		]
	}`

	v1 := &StateV1{}
	require.NoError(t, json.Unmarshal([]byte(raw), v1))

	return v1
}

func TestUpgradeState(t *testing.T) {
	v1 := testStateV1(t)

	s, err := UpgradeState(v1)
	require.NoError(t, err)

	assert.Equal(t, StateVersion, s.Version)
	require.Len(t, s.Inputs, 4)

	assert.Equal(t, CallArgPure, s.Inputs[0].Kind)
	assert.Equal(t, []byte{1, 2, 3}, s.Inputs[0].Pure.Bytes)

	assert.Equal(t, CallArgObject, s.Inputs[1].Kind)
	assert.Equal(t, ObjectArgImmOrOwned, s.Inputs[1].Object.Kind)

	assert.Equal(t, CallArgUnresolvedObject, s.Inputs[2].Kind)
	assert.Equal(t, "0xbbb", s.Inputs[2].UnresolvedObject.Value)

	assert.Equal(t, CallArgRawValue, s.Inputs[3].Kind)

	require.Len(t, s.Commands, 3)
	assert.Equal(t, CommandSplitCoins, s.Commands[0].Kind)
	assert.Equal(t, CommandMoveCall, s.Commands[1].Kind)
	assert.Equal(t, "pay", s.Commands[1].MoveCall.Module)

	// unknown kinds carry over as intents
	assert.Equal(t, CommandTransactionIntent, s.Commands[2].Kind)
	assert.Equal(t, "CustomThing", s.Commands[2].TransactionIntent.Name)
}

func TestStateV1RoundTrip(t *testing.T) {
	v1 := testStateV1(t)

	s, err := UpgradeState(v1)
	require.NoError(t, err)

	back, err := DowngradeState(s)
	require.NoError(t, err)

	require.Len(t, back.Inputs, len(v1.Inputs))
	require.Len(t, back.Transactions, len(v1.Transactions))

	for i := range v1.Inputs {
		assert.Equal(t, v1.Inputs[i].Kind, back.Inputs[i].Kind, i)
		assert.Equal(t, v1.Inputs[i].Index, back.Inputs[i].Index, i)
	}

	for i := range v1.Transactions {
		assert.Equal(t, v1.Transactions[i].Kind, back.Transactions[i].Kind, i)
	}

	// a second upgrade of the downgraded state is identical
	again, err := UpgradeState(back)
	require.NoError(t, err)
	assert.Equal(t, s.Commands, again.Commands)
	assert.Equal(t, s.Inputs, again.Inputs)
}

func TestUpgradeStateRejectsWrongVersion(t *testing.T) {
	_, err := UpgradeState(&StateV1{Version: 2})
	assert.Error(t, err)

	_, err = DowngradeState(&TransactionState{Version: 1})
	assert.Error(t, err)
}
