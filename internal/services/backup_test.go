package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	key  string
	data []byte
	err  error
}

func (u *fakeUploader) Upload(_ context.Context, key, path string) error {
	if u.err != nil {
		return u.err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	u.key, u.data = key, data
	return nil
}

func newBackupService(t *testing.T, up Uploader, dir, prefix string) (*BackupService, *EntryStore, string) {
	t.Helper()
	clock := newTestClock(noon)
	s, db := newEntryStore(t, clock)
	require.NoError(t, s.Save(context.Background(), &models.JournalEntry{Title: "t", Content: "c"}, models.OwnedBy(1)))
	return NewBackupService(s, up, dir, prefix, logging.NewNopLogger(), WithClock(clock.Now)), s, db.Path()
}

func TestBackupService_DefaultDestination(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	b, _, src := newBackupService(t, nil, dir, "")

	dest, err := b.Backup(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "journal-20240615-120000.db"), dest)

	want, err := os.ReadFile(src)
	require.NoError(t, err)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBackupService_ExplicitDestination(t *testing.T) {
	b, _, _ := newBackupService(t, nil, "", "")

	dest := filepath.Join(t.TempDir(), "copy.db")
	got, err := b.Backup(context.Background(), dest)
	require.NoError(t, err)
	assert.Equal(t, dest, got)
	assert.FileExists(t, dest)

	_, err = b.Backup(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestBackupService_ObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "2024/06/15/journal-20240615-120000.db"},
		{prefix: "journals", want: "journals/2024/06/15/journal-20240615-120000.db"},
		{prefix: "/team/alice/", want: "team/alice/2024/06/15/journal-20240615-120000.db"},
	}
	for _, tt := range tests {
		b := NewBackupService(nil, nil, "", tt.prefix, logging.NewNopLogger(), WithClock(newTestClock(noon).Now))
		assert.Equal(t, tt.want, b.ObjectKey(), tt.prefix)
	}
}

func TestBackupService_Export(t *testing.T) {
	up := &fakeUploader{}
	b, s, _ := newBackupService(t, up, "", "journals")
	ctx := context.Background()

	key, err := b.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "journals/2024/06/15/journal-20240615-120000.db", key)
	assert.Equal(t, key, up.key)
	assert.NotEmpty(t, up.data)

	assert.Equal(t, 1, s.CountForUser(ctx, 1).Value, "store usable after export")
}

func TestBackupService_ExportFailures(t *testing.T) {
	b, _, _ := newBackupService(t, nil, "", "")
	_, err := b.Export(context.Background())
	assert.ErrorIs(t, err, ErrExportDisabled)

	boom := errors.New("access denied")
	b, _, _ = newBackupService(t, &fakeUploader{err: boom}, "", "")
	_, err = b.Export(context.Background())
	assert.ErrorIs(t, err, boom)
}
