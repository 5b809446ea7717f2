package storage

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/yndnr/userdir-go/pkg/crypto/adaptive"
	"github.com/yndnr/userdir-go/pkg/token"
)

// Sealing errors.
var (
	ErrSecretTooShort   = errors.New("storage: encryption key too short (minimum 16 characters)")
	ErrDecryptionFailed = errors.New("storage: decryption failed: wrong key or corrupted data")
)

const (
	// MinSecretLength is the minimum length of the configured encryption key.
	MinSecretLength = 16

	// SaltLength is the length of the per-store salt.
	SaltLength = 16

	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	keyLength     = 32

	subkeyInfo = "userdir users v1"
)

// Sealer encrypts documents with a key derived from a secret.
//
// The key is derived with Argon2id over the secret and a random salt, then
// narrowed with HKDF-SHA256. The salt is stored next to the ciphertext.
// Derivation is expensive, so the sealer keeps the cipher for the last salt
// it used and reuses it for later writes. New documents always use the
// configured algorithm; Open uses whichever algorithm a document names.
type Sealer struct {
	secret    []byte
	algorithm adaptive.CipherType

	mu     sync.Mutex
	salt   []byte
	cipher adaptive.Cipher

	// last cipher used by Open when it differs from algorithm
	openSalt   []byte
	openCipher adaptive.Cipher
}

// NewSealer creates a sealer. An empty algorithm selects one for the host.
func NewSealer(secret string, algorithm string) (*Sealer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	algo := adaptive.CipherType(algorithm)
	switch algo {
	case "":
		algo = adaptive.Preferred()
	case adaptive.CipherAESGCM, adaptive.CipherChaCha20:
	default:
		return nil, fmt.Errorf("storage: unsupported cipher %q", algorithm)
	}
	return &Sealer{secret: []byte(secret), algorithm: algo}, nil
}

// Algorithm returns the cipher type used for new documents.
func (s *Sealer) Algorithm() adaptive.CipherType {
	return s.algorithm
}

// Seal encrypts plaintext and returns the salt the key was derived with.
func (s *Sealer) Seal(plaintext, aad []byte) (salt, sealed []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cipher == nil {
		salt, err := token.GenerateBytes(SaltLength)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: generate salt: %w", err)
		}
		c, err := s.derive(salt, s.algorithm)
		if err != nil {
			return nil, nil, err
		}
		s.salt, s.cipher = salt, c
	}

	sealed, err = s.cipher.Encrypt(plaintext, aad)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: seal: %w", err)
	}
	return s.salt, sealed, nil
}

// Open decrypts a payload sealed with salt under algorithm. An empty
// algorithm means the configured one. When the document used the configured
// algorithm the sealer adopts salt for subsequent writes; otherwise the next
// Seal re-encrypts under the configured algorithm with a fresh salt.
func (s *Sealer) Open(algorithm adaptive.CipherType, salt, sealed, aad []byte) ([]byte, error) {
	if algorithm == "" {
		algorithm = s.algorithm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cipherFor(algorithm, salt)
	if err != nil {
		return nil, err
	}
	plain, err := c.Decrypt(sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	salt = append([]byte(nil), salt...)
	if algorithm == s.algorithm {
		s.salt, s.cipher = salt, c
	} else {
		s.openSalt, s.openCipher = salt, c
	}
	return plain, nil
}

// cipherFor returns a cached cipher for (algorithm, salt) or derives one.
func (s *Sealer) cipherFor(algorithm adaptive.CipherType, salt []byte) (adaptive.Cipher, error) {
	if s.cipher != nil && s.cipher.Type() == algorithm && bytes.Equal(salt, s.salt) {
		return s.cipher, nil
	}
	if s.openCipher != nil && s.openCipher.Type() == algorithm && bytes.Equal(salt, s.openSalt) {
		return s.openCipher, nil
	}
	return s.derive(salt, algorithm)
}

func (s *Sealer) derive(salt []byte, algorithm adaptive.CipherType) (adaptive.Cipher, error) {
	if len(salt) != SaltLength {
		return nil, fmt.Errorf("storage: salt must be %d bytes", SaltLength)
	}
	master := argon2.IDKey(s.secret, salt, argon2Time, argon2Memory, argon2Threads, keyLength)
	defer zero(master)

	key := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, salt, []byte(subkeyInfo)), key); err != nil {
		return nil, fmt.Errorf("storage: derive subkey: %w", err)
	}
	defer zero(key)

	return adaptive.NewWithType(key, algorithm)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
