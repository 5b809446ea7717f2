// Package config holds the userdir-cli settings file.
//
// The file lives at ~/.userdir/cli.yaml by default and stores the server
// address, the preferred output format and the session token written by
// the login command. It is created with mode 0600 because it holds a
// bearer credential.
package config
