// Package memory provides the in-memory session table.
//
// Sessions are keyed by token hash in a sharded map, with a secondary index
// from identity to session IDs. The table is append-only and is not
// persisted: a restart invalidates every token.
//
// All operations are safe for concurrent use and never touch the directory
// lock.
package memory
