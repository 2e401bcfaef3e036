package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/config"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/migrations"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/objectstore"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/services"
	"github.com/dmitrijs2005/gophjournal/internal/session"
	"github.com/dmitrijs2005/gophjournal/internal/storage"
)

// newUploader is swapped in tests.
var newUploader = func(ctx context.Context, cfg objectstore.Config) (services.Uploader, error) {
	return objectstore.NewS3Uploader(ctx, cfg)
}

// App holds the stores and the session of one running journal.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	dbs     []*storage.Database
	entries *services.EntryStore
	creds   *services.CredentialStore
	backups *services.BackupService
	session *session.Manager
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time

	mu          sync.Mutex
	status      string
	unsubscribe func()
}

// NewApp opens both databases under cfg.DataDir, creating them on first
// use, and bootstraps the default account. cfg must already be resolved.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, err
	}

	scheme, err := cryptox.ParseScheme(cfg.PasswordScheme)
	if err != nil {
		return nil, err
	}
	hasher, err := cryptox.NewHasher(scheme)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log, reader: bufio.NewReader(in), out: out, now: time.Now}

	authDB, err := storage.Open(ctx, cfg.AuthPath(), storage.Schema{FS: migrations.FS, Dir: migrations.AuthDir}, log)
	if err != nil {
		return nil, fmt.Errorf("open accounts database: %w", err)
	}
	a.dbs = append(a.dbs, authDB)

	entriesDB, err := storage.Open(ctx, cfg.EntriesPath(), storage.Schema{FS: migrations.FS, Dir: migrations.EntriesDir}, log)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open entries database: %w", err)
	}
	a.dbs = append(a.dbs, entriesDB)

	repos := repomanager.NewSQLiteRepositoryManager(log)
	a.creds = services.NewCredentialStore(authDB, repos, hasher, log)
	if err := a.creds.Bootstrap(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.entries = services.NewEntryStore(entriesDB, repos, log)

	var uploader services.Uploader
	if cfg.S3.Enabled() {
		u, err := newUploader(ctx, cfg.S3.ObjectStore())
		if err != nil {
			log.Warn(ctx, "export disabled", "op", "NewApp", "bucket", cfg.S3.Bucket, "error", err)
		} else {
			uploader = u
		}
	}
	a.backups = services.NewBackupService(a.entries, uploader, cfg.BackupDir, cfg.S3.Prefix, log)

	a.session = session.NewManager(a.creds, log)
	a.unsubscribe = a.session.Subscribe(a.onSessionChange)
	return a, nil
}

// Close releases both databases.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	var errs []error
	for _, db := range a.dbs {
		errs = append(errs, db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) onSessionChange(u *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if u == nil {
		a.status = ""
		return
	}
	a.status = u.Username
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.status)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// owner returns the scope of the logged-in user.
func (a *App) owner() (int64, bool) {
	return a.session.UserID()
}

// value prints a warning when r is degraded and returns its value.
func value[T any](a *App, r services.Result[T]) T {
	if r.Degraded() {
		a.println("Warning: the journal could not be read, results may be incomplete.")
	}
	return r.Get()
}
