package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yndnr/userdir-go/internal/infra/confloader"
)

// CertReloader serves a certificate pair and reloads it when either file
// is rewritten. A failed reload keeps the previous certificate.
type CertReloader struct {
	certFile string
	keyFile  string
	logger   *slog.Logger

	mu   sync.RWMutex
	cert *tls.Certificate

	watcher *confloader.Watcher
}

// NewCertReloader loads the pair once. Call Watch to follow changes.
func NewCertReloader(certFile, keyFile string, logger *slog.Logger) (*CertReloader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &CertReloader{certFile: certFile, keyFile: keyFile, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload reads the pair from disk.
func (r *CertReloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("tlsroots: load key pair: %w", err)
	}
	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()
	return nil
}

// Watch starts following both files.
func (r *CertReloader) Watch() error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(r.logger))
	if err != nil {
		return err
	}
	for _, f := range []string{r.certFile, r.keyFile} {
		if err := w.Watch(f); err != nil {
			w.Stop()
			return err
		}
	}
	w.OnChange(func(path string) {
		if err := r.Reload(); err != nil {
			r.logger.Error("certificate reload failed", "file", path, "error", err)
			return
		}
		r.logger.Info("certificate reloaded", "cert_file", r.certFile)
	})
	w.StartAsync()
	r.watcher = w
	return nil
}

// Close stops watching.
func (r *CertReloader) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Stop()
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *CertReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

// ServerConfig returns a server TLS configuration backed by r.
func (r *CertReloader) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: r.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}
