package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of s.
func Hash(s string) string {
	return HashBytes([]byte(s))
}

// HashBytes returns the hex SHA-256 digest of data.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Verify reports whether s hashes to expectedHash.
func Verify(s, expectedHash string) bool {
	return equal(Hash(s), expectedHash)
}

// VerifyBytes reports whether data hashes to expectedHash.
func VerifyBytes(data []byte, expectedHash string) bool {
	return equal(HashBytes(data), expectedHash)
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
