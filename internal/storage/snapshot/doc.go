// Package snapshot provides the file gateway: the user collection kept as a
// single document on disk.
//
// Every Save writes the whole document to a temporary file in the same
// directory, fsyncs it, renames it over the previous document and fsyncs the
// directory. Readers of the path therefore see either the old or the new
// document, never a partial one.
package snapshot
