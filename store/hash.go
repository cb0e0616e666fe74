package store

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint computes a BLAKE3 hash of a token list. Each token is prefixed
// with its length so token boundaries are part of the hash: ["ab"] and
// ["a", "b"] differ.
func Fingerprint(tokens []string) [32]byte {
	h := blake3.New()
	var lenBuf [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(lenBuf[:], uint64(len(tokens)))
	h.Write(lenBuf[:n])
	for _, tok := range tokens {
		n = binary.PutUvarint(lenBuf[:], uint64(len(tok)))
		h.Write(lenBuf[:n])
		h.Write([]byte(tok))
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// HashToHex converts a 32-byte hash to a lowercase hex string.
func HashToHex(h [32]byte) string {
	return hex.EncodeToString(h[:])
}

// HexToHash parses a 64-character hex string to a 32-byte hash.
func HexToHash(s string) ([32]byte, error) {
	var h [32]byte
	if len(s) != 64 {
		return h, fmt.Errorf("store: hash must be 64 hex characters, got %d", len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("store: %w", err)
	}
	return h, nil
}
