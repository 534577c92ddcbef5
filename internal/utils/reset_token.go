package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashResetToken generates a SHA-256 hex digest of a reset token. The
// plaintext token is mailed to the user; only this digest is persisted.
func HashResetToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CompareResetTokenHash compares a plain reset token with its stored digest.
// The `token` parameter must be the raw token string, not a hash.
func CompareResetTokenHash(token string, storedHash string) bool {
	return HashResetToken(token) == storedHash
}
