package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// MinEncryptionKeyLength matches the minimum the storage sealer accepts.
const MinEncryptionKeyLength = 16

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyHTTP(&cfg.Server.HTTP); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyHTTP(cfg *HTTPConfig) error {
	if cfg.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("server.http.addr %q: %w", cfg.Addr, err)
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{cfg.TLSCertFile, cfg.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}

	if cfg.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if cfg.RateBurst < 0 {
		return errors.New("server.http.rate_burst must not be negative")
	}

	for _, p := range cfg.TrustedProxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("server.http.trusted_proxies %q: %w", p, err)
			}
			continue
		}
		if net.ParseIP(p) == nil {
			return fmt.Errorf("server.http.trusted_proxies %q: invalid address", p)
		}
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("storage.backend %q: must be %q or %q", cfg.Backend, BackendFile, BackendBadger)
	}

	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if cfg.Backend == BackendFile && cfg.FileName == "" {
		return errors.New("storage.file_name is required for the file backend")
	}
	if strings.ContainsRune(cfg.FileName, os.PathSeparator) {
		return errors.New("storage.file_name must not contain a path separator")
	}

	switch cfg.Cipher {
	case "", "aes-gcm", "chacha20-poly1305":
	default:
		return fmt.Errorf("storage.cipher %q: must be aes-gcm or chacha20-poly1305", cfg.Cipher)
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.EncryptionKey != "" && len(cfg.EncryptionKey) < MinEncryptionKeyLength {
		return fmt.Errorf("security.encryption_key must be at least %d bytes", MinEncryptionKeyLength)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not a known level", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q: must be json or text", cfg.Format)
	}
	return nil
}
