package types

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDigest(seed byte) string {
	buf := make([]byte, ObjectDigestLength)
	for i := range buf {
		buf[i] = seed
	}

	return base58.Encode(buf)
}

func testObjectRef(id string, version uint64, seed byte) ObjectRef {
	return ObjectRef{
		ObjectID: MustAddress(id),
		Version:  Uint64String(version),
		Digest:   testDigest(seed),
	}
}

func testTransactionData(t *testing.T) *TransactionData {
	t.Helper()

	return &TransactionData{
		Sender:     MustAddress("0x11"),
		Expiration: Expiration{Kind: ExpirationEpoch, Epoch: 400},
		GasPayment: []ObjectRef{testObjectRef("0xdef", 7, 0x20)},
		GasOwner:   MustAddress("0x11"),
		GasPrice:   1000,
		GasBudget:  2000050,
		Inputs: []CallArg{
			PureCallArg([]byte{1, 2, 3}),
			OwnedObjectCallArg(testObjectRef("0xaaa", 3, 0x10)),
			SharedObjectCallArg(SharedObjectRef{
				ObjectID:             MustAddress("0xbbb"),
				InitialSharedVersion: 9,
				Mutable:              true,
			}),
			ReceivingObjectCallArg(testObjectRef("0xccc", 5, 0x11)),
		},
		Commands: []Command{
			SplitCoinsCommandOf(GasCoinArgument(), []Argument{InputArgument(0)}),
			MoveCallCommand(ProgrammableMoveCall{
				Package:       MustAddress("0x2"),
				Module:        "pay",
				Function:      "keep",
				TypeArguments: []TypeTag{*MustParseTypeTag("0x2::coin::Coin<0x2::mvk::MVK>")},
				Arguments:     []Argument{NestedResultArgument(0, 0), InputArgument(2)},
			}),
			TransferObjectsCommandOf([]Argument{InputArgument(1), ResultArgument(0)}, InputArgument(0)),
			MakeMoveVecCommandOf(MustParseTypeTag("u64"), []Argument{InputArgument(0)}),
			PublishCommandOf([][]byte{{0xca, 0xfe}}, []Address{MustAddress("0x1")}),
			UpgradeCommandOf([][]byte{{0xbe, 0xef}}, []Address{MustAddress("0x2")},
				MustAddress("0xdd"), ResultArgument(0)),
		},
	}
}

func TestTransactionDataRoundTrip(t *testing.T) {
	data := testTransactionData(t)

	encoded, err := data.MarshalBCS()
	require.NoError(t, err)

	decoded, err := DecodeTransactionData(encoded)
	require.NoError(t, err)

	assert.Equal(t, data, decoded)

	// re-encoding the decoded form must reproduce the bytes
	again, err := decoded.MarshalBCS()
	require.NoError(t, err)
	assert.Equal(t, encoded, again)
}

func TestTransactionKindRoundTrip(t *testing.T) {
	data := testTransactionData(t)

	encoded, err := EncodeTransactionKind(data.Inputs, data.Commands)
	require.NoError(t, err)

	inputs, commands, err := DecodeTransactionKind(encoded)
	require.NoError(t, err)

	assert.Equal(t, data.Inputs, inputs)
	assert.Equal(t, data.Commands, commands)
}

func TestEncodeRejectsTransientState(t *testing.T) {
	_, err := EncodeTransactionKind(
		[]CallArg{UnresolvedObjectCallArg("0xaaa")},
		nil,
	)
	assert.Error(t, err)

	_, err = EncodeTransactionKind(
		[]CallArg{RawValueCallArg(uint64(1), RawValuePure)},
		nil,
	)
	assert.Error(t, err)

	_, err = EncodeTransactionKind(
		nil,
		[]Command{TransactionIntentCommand(TransactionIntent{Name: "foo"})},
	)
	assert.Error(t, err)

	_, err = EncodeTransactionKind(
		nil,
		[]Command{TransferObjectsCommandOf([]Argument{IntentResultArgument(0)}, GasCoinArgument())},
	)
	assert.Error(t, err)
}

func TestEncodeRejectsDanglingResult(t *testing.T) {
	_, err := EncodeTransactionKind(
		nil,
		[]Command{TransferObjectsCommandOf([]Argument{ResultArgument(5)}, GasCoinArgument())},
	)
	assert.Error(t, err)
}

func TestDecodeFailures(t *testing.T) {
	cases := [][]byte{
		{},           // empty
		{9},          // unknown variant
		{0, 0, 0x11}, // truncated sender
	}

	for _, c := range cases {
		_, err := DecodeTransactionData(c)
		assert.ErrorIs(t, err, ErrDeserialization)
	}
}

func TestDigestStability(t *testing.T) {
	data := testTransactionData(t)

	encoded, err := data.MarshalBCS()
	require.NoError(t, err)

	first := TransactionDigest(encoded)
	second := TransactionDigest(encoded)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)

	// a single flipped byte must change the digest
	mutated := append([]byte{}, encoded...)
	mutated[len(mutated)-1] ^= 0xff

	assert.NotEqual(t, first, TransactionDigest(mutated))
}

func TestHashTypedDataDomainSeparation(t *testing.T) {
	payload := []byte{1, 2, 3}

	assert.NotEqual(t,
		HashTypedData("TransactionData", payload),
		HashTypedData("TransactionEffects", payload),
	)
}
