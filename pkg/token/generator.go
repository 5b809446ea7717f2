package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultLength is the default secret length in bytes (256 bits).
const DefaultLength = 32

// Generate returns a DefaultLength secret, Base64 RawURL encoded.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns a secret of length random bytes, Base64 RawURL encoded.
func GenerateWithLength(length int) (string, error) {
	b, err := GenerateBytes(length)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateBytes reads length bytes from the CSPRNG.
func GenerateBytes(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("token: invalid length %d", length)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("token: read random: %w", err)
	}
	return b, nil
}
