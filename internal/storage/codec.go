package storage

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/pkg/crypto/adaptive"
	"github.com/yndnr/userdir-go/pkg/token"
)

// DocumentVersion is the current sealed document version.
const DocumentVersion = 1

// Codec errors.
var (
	ErrEmptyDocument      = errors.New("storage: empty document")
	ErrUnsupportedVersion = errors.New("storage: unsupported document version")
	ErrChecksumMismatch   = errors.New("storage: checksum mismatch")
	ErrSealedNoKey        = errors.New("storage: document is sealed but no encryption key is configured")
)

// usersAAD binds sealed payloads to their purpose.
var usersAAD = []byte("userdir/users")

type sealedDocument struct {
	Version   int    `json:"version"`
	SavedAt   int64  `json:"saved_at"`
	Count     int    `json:"count"`
	Checksum  string `json:"checksum"`
	Encrypted bool   `json:"encrypted"`
	Cipher    string `json:"cipher,omitempty"`
	Salt      string `json:"salt,omitempty"`
	Sealed    string `json:"sealed,omitempty"`
}

// Codec converts between the collection and its stored bytes.
// A nil sealer selects the plain format.
type Codec struct {
	sealer *Sealer
}

// NewCodec creates a codec. sealer may be nil.
func NewCodec(sealer *Sealer) *Codec {
	return &Codec{sealer: sealer}
}

// Sealed reports whether Encode produces sealed documents.
func (c *Codec) Sealed() bool {
	return c != nil && c.sealer != nil
}

// Encode serializes users.
func (c *Codec) Encode(users []domain.User) ([]byte, error) {
	if users == nil {
		users = []domain.User{}
	}
	plain, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("storage: marshal users: %w", err)
	}
	if !c.Sealed() {
		return append(plain, '\n'), nil
	}

	salt, sealed, err := c.sealer.Seal(plain, usersAAD)
	if err != nil {
		return nil, err
	}
	doc := sealedDocument{
		Version:   DocumentVersion,
		SavedAt:   time.Now().UnixMilli(),
		Count:     len(users),
		Checksum:  token.HashBytes(plain),
		Encrypted: true,
		Cipher:    string(c.sealer.Algorithm()),
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Sealed:    base64.StdEncoding.EncodeToString(sealed),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("storage: marshal document: %w", err)
	}
	return append(out, '\n'), nil
}

// Decode parses data in either format.
func (c *Codec) Decode(data []byte) ([]domain.User, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	switch data[0] {
	case '[':
		return decodeUsers(data)
	case '{':
		return c.decodeSealed(data)
	default:
		return nil, fmt.Errorf("storage: unrecognized document (starts with %q)", data[0])
	}
}

func (c *Codec) decodeSealed(data []byte) ([]domain.User, error) {
	var doc sealedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: parse document: %w", err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if !c.Sealed() {
		return nil, ErrSealedNoKey
	}

	salt, err := base64.StdEncoding.DecodeString(doc.Salt)
	if err != nil {
		return nil, fmt.Errorf("storage: decode salt: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(doc.Sealed)
	if err != nil {
		return nil, fmt.Errorf("storage: decode payload: %w", err)
	}
	plain, err := c.sealer.Open(adaptive.CipherType(doc.Cipher), salt, sealed, usersAAD)
	if err != nil {
		return nil, err
	}
	if !token.VerifyBytes(plain, doc.Checksum) {
		return nil, ErrChecksumMismatch
	}

	users, err := decodeUsers(plain)
	if err != nil {
		return nil, err
	}
	if len(users) != doc.Count {
		return nil, fmt.Errorf("storage: document count %d does not match %d records", doc.Count, len(users))
	}
	return users, nil
}

func decodeUsers(data []byte) ([]domain.User, error) {
	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("storage: parse users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
