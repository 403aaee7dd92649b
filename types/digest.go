package types

import (
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// TransactionDataDomain is the domain separator of signable
// transaction bytes
const TransactionDataDomain = "TransactionData"

// HashTypedData hashes data under a typed domain separator. The
// domain tag is joined with "::" before hashing so that bytes of one
// kind can never collide with another.
func HashTypedData(domain string, data []byte) []byte {
	prefix := []byte(domain + "::")

	payload := make([]byte, 0, len(prefix)+len(data))
	payload = append(payload, prefix...)
	payload = append(payload, data...)

	digest := blake2b.Sum256(payload)

	return digest[:]
}

// TransactionDigest derives the canonical digest string of serialized
// transaction data
func TransactionDigest(data []byte) string {
	return base58.Encode(HashTypedData(TransactionDataDomain, data))
}
