package storage

import (
	"context"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/core/service"
)

// Backend names accepted by configuration.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Gateway is the durable mirror of the user collection.
type Gateway interface {
	// Load returns the stored collection, or an empty one if nothing usable
	// is stored.
	Load(ctx context.Context) []domain.User

	// Save atomically replaces the stored collection.
	Save(ctx context.Context, users []domain.User) error

	// Close releases the backend.
	Close() error
}

var _ service.UserPersister = (Gateway)(nil)
