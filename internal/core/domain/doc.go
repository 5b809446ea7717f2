// Package domain defines the core domain models for the user directory.
//
// Domain models are pure value objects without IO dependencies or
// framework coupling. This package contains:
//
//   - User: a directory record and its create/update payloads
//   - Locator: how a request addresses a record in the collection
//   - Session: a minted session binding a token hash to an identity
//   - Token: session token generation and hashing
//   - Errors: domain error codes shared by every layer
package domain
