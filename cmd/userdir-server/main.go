package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/yndnr/userdir-go/internal/core/service"
	"github.com/yndnr/userdir-go/internal/infra/buildinfo"
	"github.com/yndnr/userdir-go/internal/infra/confloader"
	"github.com/yndnr/userdir-go/internal/infra/shutdown"
	"github.com/yndnr/userdir-go/internal/infra/tlsroots"
	"github.com/yndnr/userdir-go/internal/server/config"
	"github.com/yndnr/userdir-go/internal/server/httpserver"
	"github.com/yndnr/userdir-go/internal/storage"
	"github.com/yndnr/userdir-go/internal/storage/memory"
	"github.com/yndnr/userdir-go/internal/storage/snapshot"
	"github.com/yndnr/userdir-go/internal/telemetry/logger"
	"github.com/yndnr/userdir-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("userdir-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	logger.SetDefault(log)

	log.Info("starting userdir-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	metrics := metric.NewRegistry()

	gateway, err := openGateway(cfg, metrics, log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	ctx := context.Background()
	initial := gateway.Load(ctx)

	directory := service.NewDirectoryService(gateway, initial,
		service.WithDirectoryObserver(metrics),
		service.WithDirectoryLogger(log))
	sessionStore := memory.New()
	sessions := service.NewSessionService(sessionStore,
		service.WithSessionObserver(metrics),
		service.WithSessionLogger(log))

	metrics.Registerer().MustRegister(metric.NewCollector(directory, sessions))

	log.Info("directory loaded",
		"users", directory.Len(),
		"backend", cfg.Storage.Backend)

	proxies, err := httpserver.ParseTrustedProxies(cfg.Server.HTTP.TrustedProxies)
	if err != nil {
		gateway.Close()
		return fmt.Errorf("trusted proxies: %w", err)
	}

	var draining atomic.Bool
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Directory:          directory,
		Sessions:           sessions,
		Logger:             log,
		Metrics:            metrics.Handler(),
		Observer:           metrics,
		Events:             metrics,
		Draining:           draining.Load,
		CORSAllowedOrigins: cfg.Server.HTTP.CORSOrigins,
		RateLimit:          cfg.Server.HTTP.RateLimit,
		RateBurst:          cfg.Server.HTTP.RateBurst,
		TrustedProxies:     proxies,
	})

	opts := httpserver.Options{
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
		Logger:       log,
	}

	var certs *tlsroots.CertReloader
	if cfg.Server.HTTP.TLSEnabled() {
		certs, err = tlsroots.NewCertReloader(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile, log)
		if err != nil {
			gateway.Close()
			return fmt.Errorf("load tls certificate: %w", err)
		}
		if err := certs.Watch(); err != nil {
			log.Warn("tls certificate reload disabled", "error", err)
		}
		opts.TLSConfig = certs.ServerConfig()
	}

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, opts)
	ln, err := httpServer.Listen()
	if err != nil {
		gateway.Close()
		return fmt.Errorf("listen %s: %w", cfg.Server.HTTP.Addr, err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout)

	// Hooks run in reverse: the server drains before storage closes.
	shutdownHandler.OnShutdown(func(context.Context) error {
		log.Info("closing storage", "backend", cfg.Storage.Backend)
		return gateway.Close()
	})
	if certs != nil {
		shutdownHandler.OnShutdown(func(context.Context) error {
			return certs.Close()
		})
	}
	if *configFile != "" {
		if watcher, err := watchConfig(*configFile, log); err != nil {
			log.Warn("config reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(context.Context) error {
		draining.Store(true)
		return nil
	})

	go func() {
		if err := httpServer.Serve(ln); err != nil {
			log.Error("http server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers the file and environment over the defaults and
// validates the result.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithEnvKeys(config.Keys())}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// openGateway builds the codec and the configured persistence backend.
func openGateway(cfg *config.ServerConfig, metrics *metric.Registry, log *slog.Logger) (storage.Gateway, error) {
	var sealer *storage.Sealer
	if cfg.Security.EncryptionKey != "" {
		s, err := storage.NewSealer(cfg.Security.EncryptionKey, cfg.Storage.Cipher)
		if err != nil {
			return nil, err
		}
		sealer = s
		log.Info("storage encryption enabled", "cipher", string(s.Algorithm()))
	}
	codec := storage.NewCodec(sealer)

	switch cfg.Storage.Backend {
	case storage.BackendBadger:
		bcfg := storage.DefaultBadgerConfig(filepath.Join(cfg.Storage.DataDir, "badger"))
		if cfg.Storage.BadgerGCInterval > 0 {
			bcfg.GCInterval = cfg.Storage.BadgerGCInterval
		}
		gw, err := storage.NewBadgerGateway(bcfg, codec, log)
		if err != nil {
			return nil, err
		}
		gw.RegisterMetrics(metrics.Registerer())
		return gw, nil
	default:
		return snapshot.NewFileGateway(snapshot.Config{
			Dir:      cfg.Storage.DataDir,
			FileName: cfg.Storage.FileName,
			Codec:    codec,
		}, log)
	}
}

// watchConfig re-reads the config file on change and applies log.level.
// Other keys need a restart.
func watchConfig(path string, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()

	return w, nil
}
