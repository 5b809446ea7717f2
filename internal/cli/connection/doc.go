// Package connection is the HTTP client userdir-cli uses to talk to the
// server.
//
// It attaches the stored session token as X-Session-Token, unwraps the
// server's JSON envelope and turns error envelopes into *APIError values
// that keep the UD-* code.
package connection
