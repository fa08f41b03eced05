package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic fingerprint used for reproducibility audits
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// FingerprintFit hashes the structural inputs of a fit (dimensions, flags and
// the lambda path) so that two runs claiming the same configuration can be
// compared for replayability.
func FingerprintFit(n, p int, square bool, numKeep int, lambda []float64) Hash {
	buf := make([]byte, 0, 8*(4+len(lambda)))
	buf = appendUint64(buf, uint64(n))
	buf = appendUint64(buf, uint64(p))
	if square {
		buf = appendUint64(buf, 1)
	} else {
		buf = appendUint64(buf, 0)
	}
	buf = appendUint64(buf, uint64(numKeep))
	for _, lam := range lambda {
		buf = appendUint64(buf, math.Float64bits(lam))
	}
	return NewHash(buf)
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}
