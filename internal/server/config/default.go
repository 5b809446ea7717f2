package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	BackendFile   = "file"
	BackendBadger = "badger"

	DefaultBackend          = BackendFile
	DefaultDataDir          = "./data"
	DefaultFileName         = "users.json"
	DefaultBadgerGCInterval = 10 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				IdleTimeout:     DefaultIdleTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		Storage: StorageSection{
			Backend:          DefaultBackend,
			DataDir:          DefaultDataDir,
			FileName:         DefaultFileName,
			BadgerGCInterval: DefaultBadgerGCInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Keys lists every configuration key. Environment variables are matched
// against these so that USERDIR_STORAGE_DATA_DIR maps to storage.data_dir.
func Keys() []string {
	return []string{
		"server.http.addr",
		"server.http.tls_cert_file",
		"server.http.tls_key_file",
		"server.http.rate_limit",
		"server.http.rate_burst",
		"server.http.cors_origins",
		"server.http.trusted_proxies",
		"server.http.read_timeout",
		"server.http.write_timeout",
		"server.http.idle_timeout",
		"server.http.shutdown_timeout",
		"storage.backend",
		"storage.data_dir",
		"storage.file_name",
		"storage.cipher",
		"storage.badger_gc_interval",
		"security.encryption_key",
		"log.level",
		"log.format",
	}
}
