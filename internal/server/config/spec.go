package config

import "time"

// ServerConfig is the root configuration for userdir-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Storage  StorageSection  `koanf:"storage"`
	Security SecuritySection `koanf:"security"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// RateLimit is requests per second per client IP. Zero disables it.
	RateLimit float64 `koanf:"rate_limit"`
	// RateBurst defaults to the ceiling of RateLimit.
	RateBurst int `koanf:"rate_burst"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// TrustedProxies lists CIDRs or addresses of reverse proxies whose
	// X-Forwarded-For and X-Real-IP headers are believed. Empty means the
	// client IP is always the TCP peer.
	TrustedProxies []string `koanf:"trusted_proxies"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// TLSEnabled reports whether a certificate pair is configured.
func (c HTTPConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// StorageSection configures the backing store.
type StorageSection struct {
	// Backend is "file" or "badger".
	Backend  string `koanf:"backend"`
	DataDir  string `koanf:"data_dir"`
	FileName string `koanf:"file_name"`

	// Cipher forces "aes-gcm" or "chacha20-poly1305" for sealed documents.
	// Empty picks by hardware support.
	Cipher string `koanf:"cipher"`

	BadgerGCInterval time.Duration `koanf:"badger_gc_interval"`
}

// SecuritySection configures security settings.
type SecuritySection struct {
	// EncryptionKey seals the stored collection when set.
	EncryptionKey string `koanf:"encryption_key"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
