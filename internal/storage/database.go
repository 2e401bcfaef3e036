package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

const busyTimeoutMillis = 5000

// Schema points at a directory of goose migrations inside FS.
type Schema struct {
	FS  fs.FS
	Dir string
}

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// Database is one SQLite file with its migrated schema.
type Database struct {
	mu     sync.RWMutex
	path   string
	schema Schema
	log    logging.Logger
	db     *sql.DB
}

// Open opens (creating if needed) the database at path and brings its schema
// up to date.
func Open(ctx context.Context, path string, schema Schema, log logging.Logger) (*Database, error) {
	if err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	d := &Database{path: path, schema: schema, log: log.With("db", filepath.Base(path))}
	db, err := d.open(ctx)
	if err != nil {
		return nil, err
	}
	d.db = db
	return d, nil
}

func dsn(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", path, busyTimeoutMillis)
}

func (d *Database) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn(d.path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.path, err)
	}

	if err := Migrate(ctx, db, d.schema, d.log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies every pending migration of schema to db.
func Migrate(ctx context.Context, db *sql.DB, schema Schema, log logging.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(schema.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{ctx: ctx, log: log})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, schema.Dir); err != nil {
		return fmt.Errorf("migrate %s: %w", schema.Dir, err)
	}
	return nil
}

// DB returns the current handle. After Close it returns the closed handle,
// so callers get "database is closed" errors rather than a nil pointer.
func (d *Database) DB() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// Path is the database file location.
func (d *Database) Path() string {
	return d.path
}

// Close releases the file handle.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db.Close()
}

// Reopen replaces the handle with a freshly opened one.
func (d *Database) Reopen(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_ = d.db.Close()
	db, err := d.open(ctx)
	if err != nil {
		return err
	}
	d.db = db
	return nil
}

// Release closes the file, runs fn and reopens the file whatever fn returned.
// The error from fn takes precedence over a reopen error.
func (d *Database) Release(ctx context.Context, fn func(path string) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.db.Close(); err != nil {
		d.log.Warn(ctx, "close before release failed", "path", d.path, "error", err)
	}

	fnErr := fn(d.path)

	db, err := d.open(ctx)
	if err != nil {
		d.log.Error(ctx, "reopen after release failed", "path", d.path, "error", err)
		if fnErr == nil {
			return err
		}
		return fnErr
	}
	d.db = db
	return fnErr
}

// gooseLogger routes goose output into the journal logger.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.log.Debug(l.ctx, fmt.Sprintf(format, v...), "component", "goose")
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	l.log.Error(l.ctx, msg, "component", "goose")
	panic(msg)
}
