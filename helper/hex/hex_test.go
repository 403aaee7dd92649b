package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		input    string
		expected []byte
	}{
		{"0x01", []byte{0x1}},
		{"0xabcd", []byte{0xab, 0xcd}},
		// odd length gets left-padded
		{"0xf", []byte{0x0f}},
		// prefix is optional
		{"ff", []byte{0xff}},
	}

	for _, c := range cases {
		buf, err := DecodeHex(c.input)

		assert.NoError(t, err)
		assert.Equal(t, c.expected, buf)
	}

	assert.Equal(t, "0x0102", EncodeToHex([]byte{0x1, 0x2}))
	assert.True(t, HasPrefix("0x1"))
	assert.False(t, HasPrefix("1"))
}

func TestDecodeHexInvalid(t *testing.T) {
	_, err := DecodeHex("0xzz")
	assert.Error(t, err)
}
