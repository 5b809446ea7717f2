package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionIDPrefix is the prefix for session IDs.
const SessionIDPrefix = "udss-"

// Session binds a minted token to the identity claimed at login.
//
// Sessions never expire. CreatedAt is kept so an expiry policy can be
// layered on without changing how tokens resolve.
type Session struct {
	// ID is the public handle of the session: udss-{ulid_lowercase}.
	ID string `json:"id"`

	// Identity is the username the session acts as.
	Identity string `json:"identity"`

	// TokenHash is HashToken of the plaintext token.
	TokenHash string `json:"token_hash"`

	// CreatedAt is the mint timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`
}

// NewSession creates a Session for identity bound to tokenHash.
func NewSession(identity, tokenHash string) (*Session, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		Identity:  identity,
		TokenHash: tokenHash,
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}

// GenerateSessionID generates a new session ID using ULID.
func GenerateSessionID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return SessionIDPrefix + strings.ToLower(id.String()), nil
}

// IsValidSessionID checks if a string is a valid session ID.
func IsValidSessionID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, SessionIDPrefix) || len(id) != len(SessionIDPrefix)+ulid.EncodedSize {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(SessionIDPrefix):]))
	return err == nil
}

// CreatedAtTime returns CreatedAt as time.Time.
func (s *Session) CreatedAtTime() time.Time {
	return time.UnixMilli(s.CreatedAt)
}

// Clone returns a copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
