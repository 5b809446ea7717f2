// Package service provides the domain services of the user directory.
//
// Services hold business rules and define interfaces for their storage
// dependencies so they can be wired to any backend and tested with fakes.
//
// This package contains:
//
//   - DirectoryService: the ordered user collection, ownership checks and
//     write-through persistence
//   - SessionService: minting and resolving session tokens
//
// Both services are built once at startup and shared by pointer. They are
// independent: the HTTP layer resolves a session first and passes the
// resulting identity into the directory, so the two locks are never held
// together.
package service
