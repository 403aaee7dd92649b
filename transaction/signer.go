package transaction

import (
	"context"
	"errors"

	"github.com/movekit-lab/movekit/types"
)

var errDigestOfKind = errors.New("cannot derive a digest from a kind-only build")

// Signer produces a signature over canonical transaction bytes. Key
// management lives outside this module.
type Signer interface {
	Sign(data []byte) (signature []byte, err error)
}

// SignedTransaction pairs canonical bytes with their signature
type SignedTransaction struct {
	Bytes     []byte
	Signature []byte
	Digest    string
}

// Sign resolves and builds the transaction, then signs the canonical
// bytes with the signer
func (tx *Transaction) Sign(ctx context.Context, signer Signer, opts *BuildOptions) (*SignedTransaction, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	if opts.OnlyTransactionKind {
		return nil, errDigestOfKind
	}

	encoded, err := tx.Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	signature, err := signer.Sign(encoded)
	if err != nil {
		return nil, err
	}

	return &SignedTransaction{
		Bytes:     encoded,
		Signature: signature,
		Digest:    types.TransactionDigest(encoded),
	}, nil
}
