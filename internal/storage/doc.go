// Package storage owns the SQLite database files of the journal.
//
// A Database wraps one file: it opens it with the pure-Go modernc.org/sqlite
// driver, limits the pool to a single connection, applies the embedded goose
// migrations and can temporarily release the file handle (for a byte-level
// backup) and reopen it afterwards.
//
// Repositories must not cache the *sql.DB returned by DB across a Release,
// because the handle is replaced when the file is reopened.
package storage
