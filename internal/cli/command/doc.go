// Package command defines the userdir-cli command tree on urfave/cli/v2.
//
// Global flags select the server, the session token and the output format.
// Values not given as flags come from USERDIR_* environment variables and
// then from ~/.userdir/cli.yaml, which "login" updates with the new token.
package command
