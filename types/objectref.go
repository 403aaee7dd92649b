package types

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/mr-tron/base58"
)

// ObjectDigestLength is the byte width of an object digest
const ObjectDigestLength = 32

// Uint64String is a u64 that travels as a decimal string in JSON,
// since JSON numbers cannot carry the full u64 range
type Uint64String uint64

func (u Uint64String) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(u), 10))), nil
}

func (u *Uint64String) UnmarshalJSON(input []byte) error {
	var raw json.RawMessage
	if err := json.Unmarshal(input, &raw); err != nil {
		return err
	}

	str := string(raw)
	if unquoted, err := strconv.Unquote(str); err == nil {
		str = unquoted
	}

	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid u64 value %s: %w", string(input), err)
	}

	*u = Uint64String(v)

	return nil
}

// ObjectRef is the (id, version, digest) triple identifying one
// on-chain object version
type ObjectRef struct {
	ObjectID Address      `json:"objectId"`
	Version  Uint64String `json:"version"`
	Digest   string       `json:"digest"`
}

// DigestBytes decodes the base58 digest, enforcing the fixed width
func (o *ObjectRef) DigestBytes() ([]byte, error) {
	buf, err := base58.Decode(o.Digest)
	if err != nil {
		return nil, fmt.Errorf("invalid object digest %q: %w", o.Digest, err)
	}

	if len(buf) != ObjectDigestLength {
		return nil, fmt.Errorf("invalid object digest %q: got %d bytes, want %d",
			o.Digest, len(buf), ObjectDigestLength)
	}

	return buf, nil
}

// SharedObjectRef identifies a shared object input together with the
// mutability requested by the transaction
type SharedObjectRef struct {
	ObjectID             Address `json:"objectId"`
	InitialSharedVersion uint64  `json:"initialSharedVersion"`
	Mutable              bool    `json:"mutable"`
}
