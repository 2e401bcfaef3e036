package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/config"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, terminal bool) {
	t.Helper()
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	isTerminal = func(int) bool { return terminal }
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()
	require.NoError(t, cfg.Resolve())
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false)

	var out bytes.Buffer
	app, err := NewApp(context.Background(), cfg, logging.NewNopLogger(), strings.NewReader(""), &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app, &out
}

// script feeds lines to the shell and runs it to completion.
func script(t *testing.T, app *App, lines ...string) {
	t.Helper()
	app.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, app.Run(context.Background()))
}
