// Package logger configures structured logging on top of log/slog.
//
//   - logger.go: handler construction and a process-wide dynamic level
//   - context.go: request ID propagation through context.Context
//   - redact.go: masking of session tokens and secret-looking attributes
//
// Components receive a *slog.Logger. New builds it, SetDefault installs it
// as slog's default, and SetLevel changes the level of every logger built
// here without rebuilding them.
package logger
