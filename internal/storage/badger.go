package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

// usersKey holds the encoded collection.
var usersKey = []byte("userdir/users")

// BadgerConfig configures the Badger gateway.
type BadgerConfig struct {
	// Dir is the database directory.
	Dir string

	// SyncWrites fsyncs every commit. Off only in tests.
	SyncWrites bool

	// GCInterval is how often the value log is compacted.
	GCInterval time.Duration

	// GCThreshold is the discard ratio passed to RunValueLogGC.
	GCThreshold float64

	// InMemory runs Badger without touching disk (tests).
	InMemory bool
}

// DefaultBadgerConfig returns production defaults for dir.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:         dir,
		SyncWrites:  true,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
	}
}

// BadgerGateway stores the collection under a single Badger key. Each Save
// replaces the value in one transaction.
type BadgerGateway struct {
	db     *badger.DB
	cfg    BadgerConfig
	codec  *Codec
	logger *slog.Logger

	metricsLSMSize      prometheus.GaugeFunc
	metricsValueLogSize prometheus.GaugeFunc

	stopCh chan struct{}
	doneCh chan struct{}
}

var _ Gateway = (*BadgerGateway)(nil)

// NewBadgerGateway opens (or creates) the database in cfg.Dir.
func NewBadgerGateway(cfg BadgerConfig, codec *Codec, logger *slog.Logger) (*BadgerGateway, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, errors.New("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if codec == nil {
		codec = NewCodec(nil)
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithLogger(&badgerLogger{logger: logger}).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	g := &BadgerGateway{
		db:     db,
		cfg:    cfg,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go g.gcLoop()

	logger.Info("badger gateway opened", "dir", cfg.Dir, "in_memory", cfg.InMemory)
	return g, nil
}

// Load implements Gateway.
func (g *BadgerGateway) Load(_ context.Context) []domain.User {
	var data []byte
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usersKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		g.logger.Info("no stored collection, starting empty")
		return []domain.User{}
	}
	if err != nil {
		g.logger.Warn("failed to read stored collection, starting empty", "error", err)
		return []domain.User{}
	}

	users, err := g.codec.Decode(data)
	if err != nil {
		g.logger.Warn("stored collection is corrupt, starting empty", "error", err)
		return []domain.User{}
	}
	g.logger.Info("collection loaded", "backend", BackendBadger, "count", len(users))
	return users
}

// Save implements Gateway.
func (g *BadgerGateway) Save(_ context.Context, users []domain.User) error {
	data, err := g.codec.Encode(users)
	if err != nil {
		return err
	}
	if err := g.db.Update(func(txn *badger.Txn) error {
		return txn.Set(usersKey, data)
	}); err != nil {
		return fmt.Errorf("badger: write collection: %w", err)
	}
	return nil
}

// RegisterMetrics exposes Badger size gauges on registry.
func (g *BadgerGateway) RegisterMetrics(registry prometheus.Registerer) {
	g.metricsLSMSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "userdir",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	}, func() float64 {
		lsm, _ := g.db.Size()
		return float64(lsm)
	})
	g.metricsValueLogSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "userdir",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	}, func() float64 {
		_, vlog := g.db.Size()
		return float64(vlog)
	})
	registry.MustRegister(g.metricsLSMSize, g.metricsValueLogSize)
}

// Close stops the GC loop and closes the database.
func (g *BadgerGateway) Close() error {
	close(g.stopCh)
	<-g.doneCh

	if err := g.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}
	g.logger.Info("badger gateway closed")
	return nil
}

// gcLoop compacts the value log. Every Save rewrites the same key, so stale
// versions accumulate quickly.
func (g *BadgerGateway) gcLoop() {
	defer close(g.doneCh)

	if g.cfg.InMemory || g.cfg.GCInterval <= 0 {
		<-g.stopCh
		return
	}

	ticker := time.NewTicker(g.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.runGC()
		case <-g.stopCh:
			return
		}
	}
}

func (g *BadgerGateway) runGC() {
	threshold := g.cfg.GCThreshold
	if threshold <= 0 || threshold >= 1 {
		threshold = 0.5
	}
	cycles := 0
	for {
		err := g.db.RunValueLogGC(threshold)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			break
		}
		if err != nil {
			g.logger.Error("badger gc failed", "error", err)
			return
		}
		cycles++
	}
	if cycles > 0 {
		g.logger.Debug("badger gc completed", "cycles", cycles)
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
