package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/fardream/go-bcs/bcs"
)

// ErrDeserialization wraps every canonical-bytes parse failure
var ErrDeserialization = errors.New("deserialization failed")

// Variant indices of the canonical binary form. The discriminator of
// every sum follows the declaration order of its kinds.
const (
	bcsCallArgPure   = 0
	bcsCallArgObject = 1

	bcsObjectArgImmOrOwned = 0
	bcsObjectArgShared     = 1
	bcsObjectArgReceiving  = 2

	bcsArgumentGasCoin      = 0
	bcsArgumentInput        = 1
	bcsArgumentResult       = 2
	bcsArgumentNestedResult = 3

	bcsCommandMoveCall        = 0
	bcsCommandTransferObjects = 1
	bcsCommandSplitCoins      = 2
	bcsCommandMergeCoins      = 3
	bcsCommandMakeMoveVec     = 4
	bcsCommandPublish         = 5
	bcsCommandUpgrade         = 6

	bcsExpirationNone  = 0
	bcsExpirationEpoch = 1

	bcsTransactionDataV1 = 0

	bcsKindProgrammable = 0
)

// Move type tag variant indices
const (
	bcsTypeTagBool    = 0
	bcsTypeTagU8      = 1
	bcsTypeTagU64     = 2
	bcsTypeTagU128    = 3
	bcsTypeTagAddress = 4
	bcsTypeTagSigner  = 5
	bcsTypeTagVector  = 6
	bcsTypeTagStruct  = 7
	bcsTypeTagU16     = 8
	bcsTypeTagU32     = 9
	bcsTypeTagU256    = 10
)

type bcsWriter struct {
	buf bytes.Buffer
}

func (w *bcsWriter) uleb(v int) {
	w.buf.Write(bcs.ULEB128Encode(v))
}

func (w *bcsWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *bcsWriter) u16(v uint16) {
	var b [2]byte

	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *bcsWriter) u64(v uint64) {
	var b [8]byte

	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *bcsWriter) boolean(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *bcsWriter) fixedBytes(b []byte) {
	w.buf.Write(b)
}

// vecBytes writes a length-prefixed byte sequence
func (w *bcsWriter) vecBytes(b []byte) {
	w.uleb(len(b))
	w.buf.Write(b)
}

func (w *bcsWriter) str(s string) {
	w.vecBytes([]byte(s))
}

type bcsReader struct {
	r *bytes.Reader
}

func newBCSReader(data []byte) *bcsReader {
	return &bcsReader{r: bytes.NewReader(data)}
}

func (r *bcsReader) uleb() (int, error) {
	v, _, err := bcs.ULEB128Decode[int](r.r)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid length prefix: %s", ErrDeserialization, err)
	}

	return v, nil
}

func (r *bcsReader) u8() (uint8, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: truncated u8: %s", ErrDeserialization, err)
	}

	return b, nil
}

func (r *bcsReader) u16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: truncated u16: %s", ErrDeserialization, err)
	}

	return binary.LittleEndian.Uint16(b[:]), nil
}

func (r *bcsReader) u64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: truncated u64: %s", ErrDeserialization, err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

func (r *bcsReader) boolean() (bool, error) {
	b, err := r.u8()
	if err != nil {
		return false, err
	}

	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool byte %#x", ErrDeserialization, b)
	}
}

func (r *bcsReader) fixedBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, fmt.Errorf("%w: truncated %d byte field: %s", ErrDeserialization, n, err)
	}

	return b, nil
}

func (r *bcsReader) vecBytes() ([]byte, error) {
	n, err := r.uleb()
	if err != nil {
		return nil, err
	}

	return r.fixedBytes(n)
}

func (r *bcsReader) str() (string, error) {
	b, err := r.vecBytes()
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (r *bcsReader) address() (Address, error) {
	b, err := r.fixedBytes(AddressLength)
	if err != nil {
		return ZeroAddress, err
	}

	var a Address

	copy(a[:], b)

	return a, nil
}

func (r *bcsReader) remaining() int {
	return r.r.Len()
}
