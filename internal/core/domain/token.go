package domain

import (
	"encoding/base64"
	"strings"

	"github.com/yndnr/userdir-go/pkg/token"
)

const (
	// TokenPrefix is the prefix for session tokens.
	TokenPrefix = "udtk_"

	// TokenHashPrefix is the prefix for stored token hashes.
	TokenHashPrefix = "udth_"

	// TokenBodyLength is the Base64 RawURL length of 32 random bytes.
	TokenBodyLength = 43

	// TokenLength is the total token length (prefix + body).
	TokenLength = len(TokenPrefix) + TokenBodyLength

	// TokenHashLength is the total token hash length (prefix + hex SHA-256).
	TokenHashLength = len(TokenHashPrefix) + 64
)

// GenerateToken generates a session token from 256 bits of CSPRNG output.
// Returns the plaintext token (udtk_...) and its hash (udth_...).
//
// The plaintext is handed to the client once and never stored.
func GenerateToken() (plaintext string, hash string, err error) {
	body, err := token.Generate()
	if err != nil {
		return "", "", ErrInternalServer.WithCause(err)
	}
	plaintext = TokenPrefix + body
	return plaintext, HashToken(plaintext), nil
}

// HashToken computes the storage hash of a token.
func HashToken(plaintext string) string {
	return TokenHashPrefix + token.Hash(plaintext)
}

// ValidateTokenFormat reports whether s is shaped like a session token.
func ValidateTokenFormat(s string) bool {
	if len(s) != TokenLength || !strings.HasPrefix(s, TokenPrefix) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(s[len(TokenPrefix):])
	return err == nil
}
