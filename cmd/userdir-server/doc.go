// Package main provides the entry point for userdir-server.
//
// The server keeps an ordered user collection in memory, mirrors it to a
// file or Badger database after every mutation, and serves it over HTTP.
// Mutations require a session token obtained from POST /login.
//
// Usage:
//
//	userdir-server [flags]
//	userdir-server --config /etc/userdir/server.yaml
//
// Configuration layers are defaults, then the YAML file, then USERDIR_*
// environment variables. Changing log.level in the file takes effect
// without a restart.
package main
