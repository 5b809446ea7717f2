// Package tlsroots builds TLS configurations for the server and the CLI.
//
// The server side serves a certificate pair that is reloaded from disk
// when either file changes. The client side trusts the system roots plus
// an optional PEM bundle.
package tlsroots
