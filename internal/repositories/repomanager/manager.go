// Package repomanager vends repository implementations bound to a database
// handle or transaction, so services can build repositories per call.
package repomanager

import (
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
}

// SQLiteRepositoryManager vends the SQLite repositories.
type SQLiteRepositoryManager struct {
	log logging.Logger
	now func() time.Time
}

// NewSQLiteRepositoryManager constructs a manager whose entry repositories
// report unparsable stored dates to log.
func NewSQLiteRepositoryManager(log logging.Logger) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{log: log, now: time.Now}
}

// WithClock returns a copy whose repositories use now for date substitution.
func (m *SQLiteRepositoryManager) WithClock(now func() time.Time) *SQLiteRepositoryManager {
	c := *m
	c.now = now
	return &c
}

// Users returns a users.Repository bound to db.
func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

// Entries returns an entries.Repository bound to db.
func (m *SQLiteRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLiteRepository(db, entries.WithLogger(m.log), entries.WithClock(m.now))
}
