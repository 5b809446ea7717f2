// Package buildinfo exposes version information injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/userdir-go/internal/infra/buildinfo.Version=v1.0.0"
//
// Both binaries print it for --version, and the server reports it on the
// status page.
package buildinfo
