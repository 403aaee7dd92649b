package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeTag(t *testing.T) {
	cases := []struct {
		input    string
		expected string
		fails    bool
	}{
		{input: "u8", expected: "u8"},
		{input: "u256", expected: "u256"},
		{input: "bool", expected: "bool"},
		{input: "address", expected: "address"},
		{input: "vector<u8>", expected: "vector<u8>"},
		{input: "vector<vector<u64>>", expected: "vector<vector<u64>>"},
		{
			input:    "0x2::coin::Coin<0x2::mvk::MVK>",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000002::coin::Coin<0x0000000000000000000000000000000000000000000000000000000000000002::mvk::MVK>",
		},
		{
			input:    "0x1::table::Table<address, vector<u8>>",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000001::table::Table<address, vector<u8>>",
		},
		{input: "", fails: true},
		{input: "0x2::coin", fails: true},
		{input: "0x2::coin::Coin<u8", fails: true},
		{input: "not-a-type", fails: true},
	}

	for _, c := range cases {
		tag, err := ParseTypeTag(c.input)

		if c.fails {
			assert.Error(t, err, c.input)

			continue
		}

		require.NoError(t, err, c.input)
		assert.Equal(t, c.expected, tag.String())
	}
}

func TestTypeTagStringRoundTrip(t *testing.T) {
	inputs := []string{
		"u64",
		"vector<0x2::coin::Coin<0x2::mvk::MVK>>",
		"0x1::option::Option<vector<address>>",
	}

	for _, input := range inputs {
		tag, err := ParseTypeTag(input)
		require.NoError(t, err)

		again, err := ParseTypeTag(tag.String())
		require.NoError(t, err)

		assert.Equal(t, tag.String(), again.String())
	}
}
