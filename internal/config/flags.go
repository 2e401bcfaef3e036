package config

import "github.com/spf13/pflag"

// BindFlags registers the command-line flags on fs. Their defaults are the
// current values of c, so flags given on the command line override both the
// built-in defaults and the JSON file.
//
//	-c, --config string          JSON config file (read by Load)
//	    --data-dir string        directory holding both database files
//	    --entries-db string      entries database file name
//	    --auth-db string         accounts database file name
//	    --password-scheme string sha256, argon2id or bcrypt
//	    --log-level string       debug, info, warn or error
//	    --log-format string      text or json
//	    --backup-dir string      default backup directory
//	    --s3-endpoint string     S3-compatible endpoint for export
//	    --s3-region string
//	    --s3-bucket string
//	    --s3-prefix string
//
// S3 keys are only read from the JSON file.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to a JSON config file")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory holding both database files")
	fs.StringVar(&c.EntriesDBName, "entries-db", c.EntriesDBName, "entries database file name")
	fs.StringVar(&c.AuthDBName, "auth-db", c.AuthDBName, "accounts database file name")
	fs.StringVar(&c.PasswordScheme, "password-scheme", c.PasswordScheme, "hash scheme for new passwords: sha256, argon2id or bcrypt")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
	fs.StringVar(&c.BackupDir, "backup-dir", c.BackupDir, "directory for backups written without a path")
	fs.StringVar(&c.S3.Endpoint, "s3-endpoint", c.S3.Endpoint, "S3-compatible endpoint for export")
	fs.StringVar(&c.S3.Region, "s3-region", c.S3.Region, "S3 region")
	fs.StringVar(&c.S3.Bucket, "s3-bucket", c.S3.Bucket, "S3 bucket; export is disabled when empty")
	fs.StringVar(&c.S3.Prefix, "s3-prefix", c.S3.Prefix, "key prefix for exported backups")
}
