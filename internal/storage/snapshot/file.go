package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/storage"
)

// DefaultFileName is the document name inside the data directory.
const DefaultFileName = "users.json"

// Config configures the file gateway.
type Config struct {
	// Dir holds the document. It is created if missing.
	Dir string

	// FileName defaults to DefaultFileName.
	FileName string

	// Codec defaults to the plain format.
	Codec *storage.Codec

	// FileMode of the document; defaults to 0600.
	FileMode fs.FileMode
}

// FileGateway implements storage.Gateway on a single file.
type FileGateway struct {
	path   string
	mode   fs.FileMode
	codec  *storage.Codec
	logger *slog.Logger

	// mu serializes writers that do not already hold the directory lock.
	mu sync.Mutex
}

var _ storage.Gateway = (*FileGateway)(nil)

// NewFileGateway creates the data directory if needed and returns a gateway
// for the document in it.
func NewFileGateway(cfg Config, logger *slog.Logger) (*FileGateway, error) {
	if cfg.Dir == "" {
		return nil, errors.New("snapshot: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultFileName
	}
	if cfg.Codec == nil {
		cfg.Codec = storage.NewCodec(nil)
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0o600
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileGateway{
		path:   filepath.Join(cfg.Dir, cfg.FileName),
		mode:   cfg.FileMode,
		codec:  cfg.Codec,
		logger: logger,
	}, nil
}

// Path returns the document path.
func (g *FileGateway) Path() string {
	return g.path
}

// Load implements storage.Gateway.
func (g *FileGateway) Load(_ context.Context) []domain.User {
	data, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		g.logger.Info("no stored collection, starting empty", "path", g.path)
		return []domain.User{}
	}
	if err != nil {
		g.logger.Warn("failed to read stored collection, starting empty",
			"path", g.path,
			"error", err)
		return []domain.User{}
	}

	users, err := g.codec.Decode(data)
	if err != nil {
		g.logger.Warn("stored collection is corrupt, starting empty",
			"path", g.path,
			"error", err)
		return []domain.User{}
	}

	g.logger.Info("collection loaded",
		"backend", storage.BackendFile,
		"path", g.path,
		"count", len(users))
	return users
}

// Save implements storage.Gateway.
func (g *FileGateway) Save(_ context.Context, users []domain.User) error {
	data, err := g.codec.Encode(users)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return writeAtomic(g.path, data, g.mode)
}

// Close implements storage.Gateway.
func (g *FileGateway) Close() error {
	return nil
}

func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: write: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: chmod: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	syncDir(dir)
	return nil
}

// syncDir makes the rename durable. Some platforms cannot fsync a
// directory; that is not treated as a write failure.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}
