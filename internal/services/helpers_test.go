package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/migrations"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/storage"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock for the stores.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{t: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var noon = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func openDB(t *testing.T, name, dir string) *storage.Database {
	t.Helper()
	d, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), name),
		storage.Schema{FS: migrations.FS, Dir: dir}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newEntryStore(t *testing.T, clock *testClock) (*EntryStore, *storage.Database) {
	t.Helper()
	db := openDB(t, "journal.db", migrations.EntriesDir)
	repos := repomanager.NewSQLiteRepositoryManager(logging.NewNopLogger()).WithClock(clock.Now)
	return NewEntryStore(db, repos, logging.NewNopLogger(), WithClock(clock.Now)), db
}

func newCredentialStore(t *testing.T, scheme cryptox.Scheme, clock *testClock) (*CredentialStore, *storage.Database) {
	t.Helper()
	db := openDB(t, "journal_auth.db", migrations.AuthDir)
	h, err := cryptox.NewHasher(scheme)
	require.NoError(t, err)
	repos := repomanager.NewSQLiteRepositoryManager(logging.NewNopLogger())
	return NewCredentialStore(db, repos, h, logging.NewNopLogger(), WithClock(clock.Now)), db
}

// mockHandle serves a sqlmock database to the stores.
type mockHandle struct {
	db *sql.DB
}

func (h mockHandle) DB() *sql.DB { return h.db }
func (h mockHandle) Path() string { return "mock.db" }
func (h mockHandle) Release(ctx context.Context, fn func(path string) error) error {
	return fn(h.Path())
}
