package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonConfig is the on-disk shape of the config file.
type jsonConfig struct {
	DataDir        string `json:"data_dir"`
	EntriesDB      string `json:"entries_db"`
	AuthDB         string `json:"auth_db"`
	PasswordScheme string `json:"password_scheme"`
	LogLevel       string `json:"log_level"`
	LogFormat      string `json:"log_format"`
	BackupDir      string `json:"backup_dir"`
	S3             struct {
		Endpoint  string `json:"endpoint"`
		Region    string `json:"region"`
		Bucket    string `json:"bucket"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
		Prefix    string `json:"prefix"`
	} `json:"s3"`
}

// parseJSON overlays cfg with the non-empty values found in path.
func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.EntriesDBName, jc.EntriesDB)
	overlay(&cfg.AuthDBName, jc.AuthDB)
	overlay(&cfg.PasswordScheme, jc.PasswordScheme)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
	overlay(&cfg.BackupDir, jc.BackupDir)
	overlay(&cfg.S3.Endpoint, jc.S3.Endpoint)
	overlay(&cfg.S3.Region, jc.S3.Region)
	overlay(&cfg.S3.Bucket, jc.S3.Bucket)
	overlay(&cfg.S3.AccessKey, jc.S3.AccessKey)
	overlay(&cfg.S3.SecretKey, jc.S3.SecretKey)
	overlay(&cfg.S3.Prefix, jc.S3.Prefix)
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
