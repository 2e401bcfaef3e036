// Package entries provides the persistence layer for journal entries.
//
// # Overview
//
// The package defines a Repository interface for CRUD and query operations on
// models.JournalEntry. SQLiteRepository implements it over a dbx.DBTX (either
// *sql.DB or *sql.Tx) against the JournalEntries table.
//
// # Dates
//
// Dates and timestamps are stored as text. New rows use YYYY-MM-DD for the
// entry date and YYYY-MM-DD hh:mm:ss for timestamps, but older rows may carry
// US or European day/month forms. Reads parse leniently with datex and
// substitute the current time for values that cannot be parsed.
//
// Queries that order or filter by date do so on a normalized date expression
// computed in SQL. ListByDateRange refuses to run (ErrUntrustedDates) when a
// user has a stored date the expression cannot normalize, so callers can fall
// back to filtering in memory.
//
// # Ownership
//
// Calls that may span users take a models.Owner; the others take the owning
// user id directly. Ownership is never enforced by a database constraint.
//
// Typical usage:
//
//	repo := entries.NewSQLiteRepository(db, entries.WithLogger(log))
//	_ = repo.Insert(ctx, entry)
//	list, _ := repo.List(ctx, models.OwnedBy(userID))
//	one, _ := repo.GetByID(ctx, id, models.OwnedBy(userID))
//	removed, _ := repo.Delete(ctx, id, models.OwnedBy(userID))
package entries
