package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

// UserPersister writes the whole collection to durable storage.
type UserPersister interface {
	Save(ctx context.Context, users []domain.User) error
}

// DirectoryService owns the ordered user collection.
//
// One RWMutex guards the collection. Reads take the read lock. Every
// mutation takes the write lock, applies the change, writes the full
// collection through the persister and only then releases the lock. If the
// write fails the change is rolled back before unlocking, so a failed
// mutation leaves both memory and disk as they were.
type DirectoryService struct {
	mu    sync.RWMutex
	users []domain.User

	store    UserPersister
	observer Observer
	logger   *slog.Logger
}

// DirectoryOption configures a DirectoryService.
type DirectoryOption func(*DirectoryService)

// WithDirectoryObserver sets the metrics observer.
func WithDirectoryObserver(o Observer) DirectoryOption {
	return func(d *DirectoryService) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithDirectoryLogger sets the logger.
func WithDirectoryLogger(l *slog.Logger) DirectoryOption {
	return func(d *DirectoryService) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDirectoryService creates a DirectoryService seeded with initial, which
// is normally the result of the gateway's Load.
func NewDirectoryService(store UserPersister, initial []domain.User, opts ...DirectoryOption) *DirectoryService {
	d := &DirectoryService{
		users:    domain.CloneUsers(initial),
		store:    store,
		observer: noopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ============================================================================
// Queries
// ============================================================================

// List returns a snapshot of the collection in insertion order.
func (d *DirectoryService) List(_ context.Context) []domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return domain.CloneUsers(d.users)
}

// Get returns the record at loc.
func (d *DirectoryService) Get(_ context.Context, loc domain.Locator) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := loc.Resolve(d.users)
	if !ok {
		return domain.User{}, domain.ErrUserNotFound.WithDetails("index " + loc.String())
	}
	return d.users[i], nil
}

// Len returns the number of records.
func (d *DirectoryService) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// ============================================================================
// Mutations
// ============================================================================

// Create appends a record owned by identity and persists the collection.
func (d *DirectoryService) Create(ctx context.Context, identity string, fields domain.UserFields) (domain.User, error) {
	if err := fields.Validate(); err != nil {
		d.observer.UserOp(OpCreate, ResultInvalid)
		return domain.User{}, err
	}
	user := domain.NewUser(identity, fields)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.users = append(d.users, user)
	if err := d.persist(ctx); err != nil {
		d.users = d.users[:len(d.users)-1]
		d.fail(OpCreate, identity, err)
		return domain.User{}, err
	}

	d.observer.UserOp(OpCreate, ResultOK)
	d.logger.Info("user created",
		"index", len(d.users)-1,
		"username", user.Username,
		"created_by", identity)
	return user, nil
}

// Update applies patch to the record at loc if identity owns it.
func (d *DirectoryService) Update(ctx context.Context, identity string, loc domain.Locator, patch domain.UserPatch) (domain.User, error) {
	if err := patch.Validate(); err != nil {
		d.observer.UserOp(OpUpdate, ResultInvalid)
		return domain.User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	i, err := d.locateOwned(loc, identity, OpUpdate)
	if err != nil {
		return domain.User{}, err
	}
	if patch.IsEmpty() {
		d.observer.UserOp(OpUpdate, ResultOK)
		return d.users[i], nil
	}

	old := d.users[i]
	d.users[i] = old.Apply(patch)
	if err := d.persist(ctx); err != nil {
		d.users[i] = old
		d.fail(OpUpdate, identity, err)
		return domain.User{}, err
	}

	d.observer.UserOp(OpUpdate, ResultOK)
	d.logger.Info("user updated", "index", i, "updated_by", identity)
	return d.users[i], nil
}

// Delete removes the record at loc if identity owns it. Later records move
// down one position.
func (d *DirectoryService) Delete(ctx context.Context, identity string, loc domain.Locator) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, err := d.locateOwned(loc, identity, OpDelete)
	if err != nil {
		return err
	}

	removed := d.users[i]
	d.users = slices.Delete(d.users, i, i+1)
	if err := d.persist(ctx); err != nil {
		d.users = slices.Insert(d.users, i, removed)
		d.fail(OpDelete, identity, err)
		return err
	}

	d.observer.UserOp(OpDelete, ResultOK)
	d.logger.Info("user deleted",
		"index", i,
		"username", removed.Username,
		"deleted_by", identity)
	return nil
}

// locateOwned resolves loc and checks ownership. Caller holds d.mu.
func (d *DirectoryService) locateOwned(loc domain.Locator, identity, op string) (int, error) {
	i, ok := loc.Resolve(d.users)
	if !ok {
		d.observer.UserOp(op, ResultNotFound)
		return 0, domain.ErrUserNotFound.WithDetails("index " + loc.String())
	}
	if !d.users[i].IsOwnedBy(identity) {
		d.observer.UserOp(op, ResultForbidden)
		d.logger.Warn("ownership check failed",
			"op", op,
			"index", i,
			"identity", identity)
		return 0, domain.ErrPermissionDenied.WithDetails("record belongs to another user")
	}
	return i, nil
}

// persist writes the collection. Caller holds d.mu for writing.
func (d *DirectoryService) persist(ctx context.Context) error {
	start := time.Now()
	err := d.store.Save(ctx, domain.CloneUsers(d.users))
	d.observer.Persisted(time.Since(start), err)
	if err != nil {
		if errors.Is(err, domain.ErrStorageError) {
			return err
		}
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

func (d *DirectoryService) fail(op, identity string, err error) {
	d.observer.UserOp(op, ResultStorageError)
	d.logger.Error("persist failed, change rolled back",
		"op", op,
		"identity", identity,
		"code", domain.GetErrorCode(err),
		"error", err)
}
