package tlsroots

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writePair writes a self-signed certificate and key for commonName.
func writePair(t *testing.T, dir, commonName string) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
		IsCA:         true,
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},

		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	certFile = filepath.Join(dir, "server.crt")
	keyFile = filepath.Join(dir, "server.key")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(certFile, certPEM, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0600); err != nil {
		t.Fatal(err)
	}
	return certFile, keyFile
}

func leafCN(t *testing.T, r *CertReloader) string {
	t.Helper()
	cert, err := r.GetCertificate(nil)
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatal(err)
	}
	return leaf.Subject.CommonName
}

func TestAppendPEM(t *testing.T) {
	certFile, keyFile := writePair(t, t.TempDir(), "ca")
	data, _ := os.ReadFile(certFile)

	if err := AppendPEM(x509.NewCertPool(), data); err != nil {
		t.Errorf("AppendPEM(cert) = %v", err)
	}

	keyOnly, _ := os.ReadFile(keyFile)
	if err := AppendPEM(x509.NewCertPool(), keyOnly); err != ErrNoCertsFound {
		t.Errorf("AppendPEM(key) = %v, want ErrNoCertsFound", err)
	}
	if err := AppendPEM(x509.NewCertPool(), []byte("garbage")); err != ErrNoCertsFound {
		t.Errorf("AppendPEM(garbage) = %v, want ErrNoCertsFound", err)
	}
}

func TestClientConfig(t *testing.T) {
	certFile, _ := writePair(t, t.TempDir(), "ca")

	cfg, err := ClientConfig(certFile, false)
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	if cfg.RootCAs == nil || cfg.InsecureSkipVerify {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := ClientConfig(filepath.Join(t.TempDir(), "missing.pem"), false); err == nil {
		t.Error("ClientConfig() should fail for a missing CA file")
	}

	cfg, err = ClientConfig("", true)
	if err != nil || !cfg.InsecureSkipVerify {
		t.Errorf("ClientConfig(\"\", true) = %+v, %v", cfg, err)
	}
}

func TestCertReloader_LoadAndReload(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writePair(t, dir, "first")

	r, err := NewCertReloader(certFile, keyFile, nil)
	if err != nil {
		t.Fatalf("NewCertReloader() error = %v", err)
	}
	defer r.Close()

	if cn := leafCN(t, r); cn != "first" {
		t.Fatalf("CN = %q, want first", cn)
	}
	if r.ServerConfig().GetCertificate == nil {
		t.Error("ServerConfig() should use GetCertificate")
	}

	writePair(t, dir, "second")
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if cn := leafCN(t, r); cn != "second" {
		t.Errorf("CN after reload = %q, want second", cn)
	}
}

func TestCertReloader_FailedReloadKeepsCertificate(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writePair(t, dir, "kept")

	r, err := NewCertReloader(certFile, keyFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, []byte("broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err == nil {
		t.Fatal("Reload() should fail with a broken key")
	}
	if cn := leafCN(t, r); cn != "kept" {
		t.Errorf("CN = %q, want kept", cn)
	}
}

func TestCertReloader_WatchPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writePair(t, dir, "before")

	r, err := NewCertReloader(certFile, keyFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer r.Close()

	time.Sleep(50 * time.Millisecond)
	writePair(t, dir, "after")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if leafCN(t, r) == "after" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("certificate was not reloaded after the files changed")
}

func TestNewCertReloader_MissingFiles(t *testing.T) {
	if _, err := NewCertReloader("/nope/cert.pem", "/nope/key.pem", nil); err == nil {
		t.Error("NewCertReloader() should fail for missing files")
	}
}
