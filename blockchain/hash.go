// Package blockchain implements the Stachanov ledger core: block headers,
// Merkle roots over transaction vectors, and the transaction relationship
// state engine.
package blockchain

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// SHA3_256 returns the NIST FIPS 202 SHA3-256 digest of b.
func SHA3_256(b []byte) [32]byte {
	return sha3.Sum256(b)
}

// U64ToLE encodes x as 8 little-endian bytes.
func U64ToLE(x uint64) [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], x)
	return out
}

// LEToU64 decodes 8 little-endian bytes into a uint64. Inverse of U64ToLE.
func LEToU64(b [8]byte) uint64 {
	return binary.LittleEndian.Uint64(b[:])
}
