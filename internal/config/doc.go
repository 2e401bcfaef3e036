// Package config loads runtime configuration for the journal.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or --config.
//  3. Command-line flags bound with (*Config).BindFlags, which override
//     earlier values.
//
// # JSON schema
//
//	{
//	  "data_dir": "~/journal",
//	  "entries_db": "journal.db",
//	  "auth_db": "journal_auth.db",
//	  "password_scheme": "argon2id",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "backup_dir": "~/journal/backups",
//	  "s3": {
//	    "endpoint": "http://127.0.0.1:9000",
//	    "region": "us-east-1",
//	    "bucket": "journal-backups",
//	    "access_key": "minio",
//	    "secret_key": "minio123",
//	    "prefix": "alice"
//	  }
//	}
//
// Keys that are absent or empty keep the value from the previous stage.
package config
