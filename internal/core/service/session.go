package service

import (
	"context"
	"log/slog"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

// SessionRepository defines the storage interface for the session table.
type SessionRepository interface {
	// Create records a new session keyed by its token hash.
	Create(ctx context.Context, session *domain.Session) error

	// GetByTokenHash returns the session bound to tokenHash or
	// domain.ErrTokenInvalid.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)

	// ListByIdentity returns every session minted for identity.
	ListByIdentity(ctx context.Context, identity string) ([]*domain.Session, error)

	// Count returns the number of sessions.
	Count() int

	// CountIdentities returns the number of distinct identities with at
	// least one session.
	CountIdentities() int
}

// SessionService mints and resolves session tokens.
//
// A token is bound to the identity claimed at mint time and stays valid for
// the life of the process. No credential is checked: the identity is taken
// as given.
type SessionService struct {
	repo     SessionRepository
	observer Observer
	logger   *slog.Logger
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithSessionObserver sets the metrics observer.
func WithSessionObserver(o Observer) SessionOption {
	return func(s *SessionService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *SessionService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo SessionRepository, opts ...SessionOption) *SessionService {
	s := &SessionService{
		repo:     repo,
		observer: noopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Mint
// ============================================================================

// MintResponse contains the result of a mint.
type MintResponse struct {
	Token     string // Plaintext token, returned once
	SessionID string
	Identity  string
	CreatedAt int64 // Unix milliseconds
}

// Mint creates a fresh token bound to identity. Every call yields a new
// token, including repeated calls for the same identity. An empty identity
// is accepted as-is.
func (s *SessionService) Mint(ctx context.Context, identity string) (*MintResponse, error) {
	plaintext, hash, err := domain.GenerateToken()
	if err != nil {
		return nil, err
	}

	session, err := domain.NewSession(identity, hash)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.observer.SessionMinted()
	s.logger.Info("session minted",
		"session_id", session.ID,
		"identity", identity)

	return &MintResponse{
		Token:     plaintext,
		SessionID: session.ID,
		Identity:  identity,
		CreatedAt: session.CreatedAt,
	}, nil
}

// ============================================================================
// Resolve
// ============================================================================

// Resolve returns the identity bound to token.
//
// It fails with domain.ErrTokenMissing, domain.ErrTokenMalformed or
// domain.ErrTokenInvalid, all of which the transport reports as
// unauthenticated. The table is consulted on every call.
func (s *SessionService) Resolve(ctx context.Context, token string) (string, error) {
	session, err := s.ResolveSession(ctx, token)
	if err != nil {
		return "", err
	}
	return session.Identity, nil
}

// ResolveSession is Resolve returning the whole session.
func (s *SessionService) ResolveSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		s.observer.SessionResolved("missing")
		return nil, domain.ErrTokenMissing
	}
	if !domain.ValidateTokenFormat(token) {
		s.observer.SessionResolved("malformed")
		return nil, domain.ErrTokenMalformed
	}

	session, err := s.repo.GetByTokenHash(ctx, domain.HashToken(token))
	if err != nil {
		s.observer.SessionResolved("invalid")
		if domain.IsDomainError(err, "") {
			return nil, err
		}
		return nil, domain.ErrTokenInvalid.WithCause(err)
	}

	s.observer.SessionResolved("valid")
	return session, nil
}

// ListByIdentity returns the sessions minted for identity, oldest first.
func (s *SessionService) ListByIdentity(ctx context.Context, identity string) ([]*domain.Session, error) {
	return s.repo.ListByIdentity(ctx, identity)
}

// Count returns the number of sessions minted since start.
func (s *SessionService) Count() int {
	return s.repo.Count()
}

// CountIdentities returns the number of distinct identities holding a
// session.
func (s *SessionService) CountIdentities() int {
	return s.repo.CountIdentities()
}
