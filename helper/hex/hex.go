package hex

import (
	"encoding/hex"
	"strings"
)

const hexPrefix = "0x"

// EncodeToHex generates a hex string based on the byte representation, with the 0x prefix
func EncodeToHex(str []byte) string {
	return hexPrefix + hex.EncodeToString(str)
}

// DecodeHex converts a hex string to a byte array
func DecodeHex(str string) ([]byte, error) {
	str = strings.TrimPrefix(str, hexPrefix)

	if len(str)%2 == 1 {
		str = "0" + str
	}

	return hex.DecodeString(str)
}

// MustDecodeHex converts a hex string to a byte array, panicking on failure
func MustDecodeHex(str string) []byte {
	buf, err := DecodeHex(str)
	if err != nil {
		panic(err)
	}

	return buf
}

// HasPrefix checks whether the string carries the 0x prefix
func HasPrefix(str string) bool {
	return strings.HasPrefix(str, hexPrefix)
}
