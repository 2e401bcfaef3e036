package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDir = "gophjournal"

// goos and getenv are swapped in tests.
var (
	goos   = runtime.GOOS
	getenv = os.Getenv
)

// defaultDataDir returns the per-user local data directory for the current
// OS. The result may start with "~"; Resolve expands it.
func defaultDataDir() string {
	switch goos {
	case "windows":
		if dir := getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appDir)
		}
		return filepath.Join("~", "AppData", "Local", appDir)
	case "darwin":
		return filepath.Join("~", "Library", "Application Support", appDir)
	default:
		if dir := getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, appDir)
		}
		return filepath.Join("~", ".local", "share", appDir)
	}
}
