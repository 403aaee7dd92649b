package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgumentJSON(t *testing.T) {
	cases := []struct {
		arg      Argument
		expected string
	}{
		{GasCoinArgument(), `{"$kind":"GasCoin","GasCoin":true}`},
		{InputArgument(3), `{"$kind":"Input","Input":3}`},
		{ResultArgument(1), `{"$kind":"Result","Result":1}`},
		{NestedResultArgument(1, 2), `{"$kind":"NestedResult","NestedResult":{"index":1,"resultIndex":2}}`},
	}

	for _, c := range cases {
		raw, err := json.Marshal(c.arg)
		require.NoError(t, err)
		assert.JSONEq(t, c.expected, string(raw))

		decoded := Argument{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, c.arg, decoded)
	}
}

func TestArgumentJSONWithoutKindMirror(t *testing.T) {
	decoded := Argument{}
	require.NoError(t, json.Unmarshal([]byte(`{"Input":7}`), &decoded))

	assert.Equal(t, InputArgument(7), decoded)
}

func TestCallArgJSONRoundTrip(t *testing.T) {
	args := []CallArg{
		PureCallArg([]byte{9, 9}),
		OwnedObjectCallArg(testObjectRef("0xaaa", 1, 0x01)),
		SharedObjectCallArg(SharedObjectRef{ObjectID: MustAddress("0x6"), InitialSharedVersion: 1, Mutable: true}),
		ReceivingObjectCallArg(testObjectRef("0xbbb", 2, 0x02)),
		UnresolvedObjectCallArg("0xccc"),
		RawValueCallArg("0xddd", RawValueObject),
	}

	for _, arg := range args {
		raw, err := json.Marshal(arg)
		require.NoError(t, err)

		decoded := CallArg{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, arg.Kind, decoded.Kind)
	}
}

func TestCommandJSONRoundTrip(t *testing.T) {
	data := testTransactionData(t)

	for _, cmd := range data.Commands {
		raw, err := json.Marshal(cmd)
		require.NoError(t, err)

		decoded := Command{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, cmd, decoded)
	}
}

func TestIntentInputJSON(t *testing.T) {
	scalar := IntentInput{Single: &Argument{Kind: ArgumentInput, Input: 1}}

	raw, err := json.Marshal(scalar)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$kind":"Input","Input":1}`, string(raw))

	list := IntentInput{List: []Argument{InputArgument(1), ResultArgument(0)}}

	raw, err = json.Marshal(list)
	require.NoError(t, err)

	decoded := IntentInput{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.List, 2)
}

func TestStateJSONRoundTrip(t *testing.T) {
	state := testTransactionData(t).State()

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	decoded := TransactionState{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, state, &decoded)
}

func TestUint64StringJSON(t *testing.T) {
	raw, err := json.Marshal(Uint64String(18446744073709551615))
	require.NoError(t, err)
	assert.Equal(t, `"18446744073709551615"`, string(raw))

	var decoded Uint64String

	require.NoError(t, json.Unmarshal([]byte(`"42"`), &decoded))
	assert.Equal(t, Uint64String(42), decoded)

	// bare numbers are accepted on input
	require.NoError(t, json.Unmarshal([]byte(`42`), &decoded))
	assert.Equal(t, Uint64String(42), decoded)

	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &decoded))
}

func TestExpirationJSON(t *testing.T) {
	raw, err := json.Marshal(*NoExpiration())
	require.NoError(t, err)
	assert.JSONEq(t, `{"$kind":"None","None":true}`, string(raw))

	raw, err = json.Marshal(*EpochExpiration(7))
	require.NoError(t, err)
	assert.JSONEq(t, `{"$kind":"Epoch","Epoch":"7"}`, string(raw))

	decoded := Expiration{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, *EpochExpiration(7), decoded)
}
