// Package config defines the userdir-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values and the list of known keys
//   - verify.go: validation (addresses, TLS pair, backend, key length)
//   - sanitize.go: masking of secrets before logging
//
// Values are loaded by internal/infra/confloader from a YAML file and
// USERDIR_* environment variables, in that order.
package config
