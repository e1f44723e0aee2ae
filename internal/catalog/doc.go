// Package catalog maintains a SQLite index of serialized documents on disk.
//
// Entries are keyed by absolute file path and record the document's declared
// type, element count, and file metadata so `vellum catalog list` can answer
// without re-reading every file.
package catalog
