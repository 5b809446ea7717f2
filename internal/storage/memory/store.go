package memory

import (
	"context"
	"sort"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/core/service"
	"github.com/yndnr/userdir-go/pkg/cmap"
)

// SessionStore is the in-memory session table.
type SessionStore struct {
	// Primary index: TokenHash -> Session
	byHash *cmap.Map[string, *domain.Session]

	// Secondary index: Identity -> set of SessionIDs
	identities *IdentityIndex
}

var _ service.SessionRepository = (*SessionStore)(nil)

// Option configures the SessionStore.
type Option func(*SessionStore)

// WithShardCount sets the shard count of the primary index.
func WithShardCount(n int) Option {
	return func(s *SessionStore) {
		s.byHash = cmap.NewWithShards[string, *domain.Session](n)
	}
}

// New creates an empty session table.
func New(opts ...Option) *SessionStore {
	s := &SessionStore{
		byHash:     cmap.New[string, *domain.Session](),
		identities: NewIdentityIndex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a session. A second session with the same token hash is
// rejected; with 256-bit tokens this only happens on CSPRNG failure.
func (s *SessionStore) Create(_ context.Context, session *domain.Session) error {
	if session.TokenHash == "" {
		return domain.ErrInvalidArgument.WithDetails("token hash is required")
	}
	if !domain.IsValidSessionID(session.ID) {
		return domain.ErrInvalidArgument.WithDetails("invalid session id " + session.ID)
	}
	if !s.byHash.SetIfAbsent(session.TokenHash, session.Clone()) {
		return domain.ErrInternalServer.WithDetails("token hash collision")
	}
	s.identities.Add(session.Identity, session.ID)
	return nil
}

// GetByTokenHash returns a copy of the session bound to tokenHash.
func (s *SessionStore) GetByTokenHash(_ context.Context, tokenHash string) (*domain.Session, error) {
	session, ok := s.byHash.Get(tokenHash)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return session.Clone(), nil
}

// ListByIdentity returns copies of every session minted for identity,
// oldest first.
func (s *SessionStore) ListByIdentity(_ context.Context, identity string) ([]*domain.Session, error) {
	ids := s.identities.Get(identity)
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := make([]*domain.Session, 0, len(ids))
	s.byHash.Range(func(_ string, session *domain.Session) bool {
		if _, ok := want[session.ID]; ok {
			out = append(out, session.Clone())
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Count returns the number of sessions.
func (s *SessionStore) Count() int {
	return s.byHash.Count()
}

// CountIdentities returns the number of distinct identities with a session.
func (s *SessionStore) CountIdentities() int {
	return s.identities.Len()
}
