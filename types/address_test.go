package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToAddress(t *testing.T) {
	cases := []struct {
		input    string
		expected string
		fails    bool
	}{
		{
			input:    "0x2",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000002",
		},
		{
			input:    "0xABC",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000abc",
		},
		{
			input:    "0x1111111111111111111111111111111111111111111111111111111111111111",
			expected: "0x1111111111111111111111111111111111111111111111111111111111111111",
		},
		{
			// no prefix
			input:    "42",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000042",
		},
		{
			// too long
			input: "0x111111111111111111111111111111111111111111111111111111111111111111",
			fails: true,
		},
		{
			input: "0xzz",
			fails: true,
		},
	}

	for _, c := range cases {
		addr, err := StringToAddress(c.input)

		if c.fails {
			assert.Error(t, err)

			continue
		}

		require.NoError(t, err)
		assert.Equal(t, c.expected, addr.String())
	}
}

func TestAddressTextRoundTrip(t *testing.T) {
	addr := MustAddress("0xaa")

	text, err := addr.MarshalText()
	require.NoError(t, err)

	decoded := Address{}
	require.NoError(t, decoded.UnmarshalText(text))

	assert.Equal(t, addr, decoded)
}

func TestEqualAddressStrings(t *testing.T) {
	assert.True(t, EqualAddressStrings("0x2", "0x0002"))
	assert.True(t, EqualAddressStrings("0xAB", "0xab"))
	assert.False(t, EqualAddressStrings("0x2", "0x3"))
	assert.False(t, EqualAddressStrings("bogus", "0x3"))
}
