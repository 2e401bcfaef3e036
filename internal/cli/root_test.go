package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stubTerminal(t, false)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	root := NewRootCommand(cfg)
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := runRoot(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Build version: ")
}

func TestRoot_Shell(t *testing.T) {
	dir := t.TempDir()
	out, err := runRoot(t, "login\nuser\npassword\nstats\nexit\n", "--data-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Logged in as user.")
	assert.Contains(t, out, "Entries:        0")
	assert.FileExists(t, filepath.Join(dir, "journal.db"))
	assert.FileExists(t, filepath.Join(dir, "journal_auth.db"))
}

func TestRoot_Backup(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(t.TempDir(), "copy.db")

	out, err := runRoot(t, "", "backup", dest, "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Backup written to "+dest)
	assert.FileExists(t, dest)

	_, err = runRoot(t, "", "backup", "a", "b", "--data-dir", dir)
	assert.Error(t, err)
}

func TestRoot_Export(t *testing.T) {
	out, err := runRoot(t, "", "export", "--data-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Export is disabled")
}

func TestRoot_Stats(t *testing.T) {
	dir := t.TempDir()

	out, err := runRoot(t, "password\n", "stats", "-u", "user", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Top mood:       No data")
	assert.Contains(t, out, "Last entry:     No entries")

	_, err = runRoot(t, "wrong\n", "stats", "-u", "user", "--data-dir", dir)
	assert.ErrorIs(t, err, errInvalidCredentials)

	_, err = runRoot(t, "", "stats", "--data-dir", dir)
	assert.Error(t, err, "username is required")
}

func TestRoot_InvalidConfiguration(t *testing.T) {
	_, err := runRoot(t, "", "--data-dir", t.TempDir(), "--password-scheme", "md5")
	assert.Error(t, err)

	_, err = runRoot(t, "", "--data-dir", t.TempDir(), "--log-format", "xml")
	assert.Error(t, err)
}
