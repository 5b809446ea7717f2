// Package storage persists the user collection.
//
// A Gateway loads the whole collection once at startup and rewrites the
// whole collection after every successful mutation. Two gateways exist: the
// file gateway in package snapshot and the Badger gateway in this package.
// Both share the document codec defined here.
//
// Document format:
//
//	plain:  [{"username":..,"real_name":..,"email":..,"created_by":..}, ...]
//	sealed: {"version":1,"saved_at":..,"count":N,"checksum":"<sha256 hex>",
//	         "encrypted":true,"cipher":"aes-gcm","salt":"..","sealed":".."}
//
// Load never fails: a missing, unreadable or corrupt document yields an
// empty collection and a warning.
package storage
