// Package repl runs the interactive "userdir-cli shell".
//
// Each line is split into words, honouring single and double quotes, and
// handed to an Executor that runs it through the normal command set. The
// session token and output settings of the shell invocation carry over to
// every line. History persists in ~/.userdir/history.
package repl
