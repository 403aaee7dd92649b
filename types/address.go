package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/movekit-lab/movekit/helper/hex"
)

// AddressLength is the byte width of an account or object address
const AddressLength = 32

// Address is a 32 byte account or object identifier
type Address [AddressLength]byte

// ZeroAddress is the all-zero address
var ZeroAddress = Address{}

func (a Address) Bytes() []byte {
	return a[:]
}

// String returns the canonical form: fixed-width lowercase hex with the 0x prefix
func (a Address) String() string {
	return hex.EncodeToHex(a[:])
}

// IsZero checks whether the address is the zero value
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// StringToAddress parses an address string. Short forms are
// left-padded with zeros to the full 32 byte width.
func StringToAddress(str string) (Address, error) {
	buf, err := hex.DecodeHex(strings.ToLower(str))
	if err != nil {
		return ZeroAddress, fmt.Errorf("invalid address %q: %w", str, err)
	}

	if len(buf) > AddressLength {
		return ZeroAddress, fmt.Errorf("invalid address %q: longer than %d bytes", str, AddressLength)
	}

	var a Address

	copy(a[AddressLength-len(buf):], buf)

	return a, nil
}

// MustAddress parses an address string, panicking on failure.
// Reserved for well-known constants.
func MustAddress(str string) Address {
	a, err := StringToAddress(str)
	if err != nil {
		panic(err)
	}

	return a
}

// NormalizeAddress canonicalizes an address string
func NormalizeAddress(str string) (string, error) {
	a, err := StringToAddress(str)
	if err != nil {
		return "", err
	}

	return a.String(), nil
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	addr, err := StringToAddress(string(input))
	if err != nil {
		return err
	}

	*a = addr

	return nil
}

// EqualAddressStrings compares two address strings modulo canonicalization
func EqualAddressStrings(x, y string) bool {
	ax, err := StringToAddress(x)
	if err != nil {
		return false
	}

	ay, err := StringToAddress(y)
	if err != nil {
		return false
	}

	return bytes.Equal(ax[:], ay[:])
}
