// Package sha256 fingerprints cached puzzle content.
package sha256

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hasher produces hex-encoded SHA-256 digests.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the hex digest of data.
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Matches reports whether data hashes to digest.
func (h *Hasher) Matches(data []byte, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(h.Hash(data)), []byte(digest)) == 1
}
