package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenHasher derives the lookup hash stored for a raw refresh token.
type TokenHasher struct {
	pepper string
}

func NewTokenHasher(pepper string) *TokenHasher {
	return &TokenHasher{pepper: pepper}
}

// Hash returns hex(SHA-256(raw + "." + pepper)).
func (h *TokenHasher) Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw + "." + h.pepper))
	return hex.EncodeToString(sum[:])
}
