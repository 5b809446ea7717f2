// Package main provides the entry point for userdir-cli.
//
// Usage:
//
//	userdir-cli login alice
//	userdir-cli user create --username al --real-name "Alice" --email a@example.com
//	userdir-cli user list -o json
//	userdir-cli shell
//
// The CLI talks to userdir-server over HTTP and keeps its session token in
// ~/.userdir/cli.yaml.
package main
