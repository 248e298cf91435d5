package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is the one-way hash under which a refresh token is stored.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
