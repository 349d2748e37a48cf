package dharitri

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// HashLength is the size of a transaction hash in bytes.
const HashLength = 32

// TxHash identifies one transaction. Synthesized transactions derive their
// hash from the parent hash, so replays are deterministic.
type TxHash [HashLength]byte

// ZeroTxHash is the hash of transactions created outside any scenario step.
var ZeroTxHash = TxHash{}

// ComputeTxHash derives a transaction hash from arbitrary seed data.
func ComputeTxHash(seed []byte) TxHash {
	return TxHash(sha3.Sum256(seed))
}

// BytesToTxHash constructs a hash from a byte slice, zero-left-padded to
// the fixed hash length.
func BytesToTxHash(b []byte) TxHash {
	var h TxHash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Bytes returns the byte representation of the hash.
func (h TxHash) Bytes() []byte {
	return h[:]
}

func (h TxHash) String() string {
	return hex.EncodeToString(h[:])
}
