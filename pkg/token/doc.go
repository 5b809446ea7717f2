// Package token provides random secret generation and SHA-256 digest helpers.
//
// Generated secrets are Base64 RawURL encoded. Digests are hex encoded and
// compared in constant time.
package token
