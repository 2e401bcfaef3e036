package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// ErrExportDisabled is returned by Export when no uploader is configured.
var ErrExportDisabled = errors.New("export target is not configured")

// Uploader stores a local file under a key in remote storage.
type Uploader interface {
	Upload(ctx context.Context, key, path string) error
}

// BackupService writes local backups of the entries database and exports
// them to object storage.
type BackupService struct {
	entries  *EntryStore
	uploader Uploader
	dir      string
	prefix   string
	log      logging.Logger
	now      func() time.Time
}

// NewBackupService writes default backups into dir. uploader may be nil, in
// which case Export is disabled.
func NewBackupService(entries *EntryStore, uploader Uploader, dir, prefix string, log logging.Logger, opts ...Option) *BackupService {
	o := applyOptions(opts)
	return &BackupService{
		entries:  entries,
		uploader: uploader,
		dir:      dir,
		prefix:   strings.Trim(prefix, "/"),
		log:      logging.ForComponent(log, "backup"),
		now:      o.now,
	}
}

func (b *BackupService) fileName() string {
	return "journal-" + b.now().Format("20060102-150405") + ".db"
}

// Backup copies the entries database to dest, or to a timestamped file in
// the backup directory when dest is empty. It returns the written path.
func (b *BackupService) Backup(ctx context.Context, dest string) (string, error) {
	if dest == "" {
		if b.dir == "" {
			return "", fmt.Errorf("backup directory: %w", common.ErrorValidation)
		}
		dest = filepath.Join(b.dir, b.fileName())
	}

	if _, err := b.entries.Backup(ctx, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// ObjectKey returns <prefix>/yyyy/mm/dd/journal-<timestamp>.db.
func (b *BackupService) ObjectKey() string {
	now := b.now()
	key := path.Join(now.Format("2006"), now.Format("01"), now.Format("02"), b.fileName())
	if b.prefix != "" {
		key = path.Join(b.prefix, key)
	}
	return key
}

// Export stages a backup in a temporary file, uploads it and returns the
// object key.
func (b *BackupService) Export(ctx context.Context) (string, error) {
	if b.uploader == nil {
		return "", ErrExportDisabled
	}

	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	staging := filepath.Join(os.TempDir(), "gophjournal-export-"+suffix+".db")
	defer func() {
		if err := os.Remove(staging); err != nil && !os.IsNotExist(err) {
			b.log.Warn(ctx, "staging file not removed", "op", "Export", "path", staging, "error", err)
		}
	}()

	if _, err := b.entries.Backup(ctx, staging); err != nil {
		return "", err
	}

	key := b.ObjectKey()
	if err := b.uploader.Upload(ctx, key, staging); err != nil {
		b.log.Error(ctx, "export failed", "op", "Export", "key", key, "error", err)
		return "", err
	}

	b.log.Info(ctx, "backup exported", "op", "Export", "key", key)
	return key, nil
}
