package config

import (
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/flagx"
	"github.com/dmitrijs2005/gophjournal/internal/objectstore"
)

const (
	DefaultEntriesDB = "journal.db"
	DefaultAuthDB    = "journal_auth.db"
)

// S3 configures backup export. Export is disabled while Bucket is empty.
type S3 struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether a bucket is configured.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// ObjectStore converts s to the uploader configuration.
func (s S3) ObjectStore() objectstore.Config {
	return objectstore.Config{
		Endpoint:  s.Endpoint,
		Region:    s.Region,
		Bucket:    s.Bucket,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
	}
}

// Config holds runtime settings for the journal.
type Config struct {
	DataDir        string
	EntriesDBName  string
	AuthDBName     string
	PasswordScheme string
	LogLevel       string
	LogFormat      string
	// BackupDir receives backups written without an explicit path. Empty
	// means <DataDir>/backups.
	BackupDir string
	S3        S3
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.EntriesDBName = DefaultEntriesDB
	c.AuthDBName = DefaultAuthDB
	c.PasswordScheme = string(cryptox.DefaultScheme)
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.BackupDir = ""
	c.S3 = S3{Region: "us-east-1"}
}

// Load applies defaults and then the JSON file named by -c/--config in args,
// if any. Flags are applied later by the command parser through BindFlags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Resolve validates c and expands "~" in its paths. It is called after all
// sources have been applied.
func (c *Config) Resolve() error {
	if _, err := cryptox.ParseScheme(c.PasswordScheme); err != nil {
		return err
	}
	if c.EntriesDBName == "" || c.AuthDBName == "" {
		return fmt.Errorf("database file names must not be empty")
	}

	dir, err := filex.ExpandHome(c.DataDir)
	if err != nil {
		return err
	}
	c.DataDir = dir

	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(c.DataDir, "backups")
	}
	if c.BackupDir, err = filex.ExpandHome(c.BackupDir); err != nil {
		return err
	}
	return nil
}

// EntriesPath is the entries database file.
func (c *Config) EntriesPath() string {
	return filepath.Join(c.DataDir, c.EntriesDBName)
}

// AuthPath is the accounts database file.
func (c *Config) AuthPath() string {
	return filepath.Join(c.DataDir, c.AuthDBName)
}
