package config

import (
	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig      = "config"
	FlagEnvFile     = "env-file"
	FlagStorageRoot = "storage-root"
	FlagPreviewDir  = "preview-dir"
	FlagKeyPath     = "key"
	FlagDBDriver    = "db-driver"
	FlagDBDSN       = "db-dsn"
	FlagMaxUploadMB = "max-upload-mb"
	FlagBackupDir   = "backup-dir"
	FlagS3Bucket    = "s3-bucket"
	FlagS3Region    = "s3-region"
	FlagS3Endpoint  = "s3-endpoint"
	FlagS3Prefix    = "s3-prefix"
	FlagLogLevel    = "log-level"
	FlagLogFormat   = "log-format"
	FlagActor       = "actor"
)

// RegisterFlags adds the configuration flags to fs. Defaults are left empty so
// that only flags the user sets override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "path to JSON config file")
	fs.StringSlice(FlagEnvFile, nil, ".env files to load (default ./.env)")
	fs.String(FlagStorageRoot, "", "storage root (default \""+DefaultBaseDir+"\")")
	fs.String(FlagPreviewDir, "", "temporary preview directory")
	fs.String(FlagKeyPath, "", "encryption key file")
	fs.String(FlagDBDriver, "", "database driver: sqlite or pgx")
	fs.String(FlagDBDSN, "", "database DSN or SQLite file")
	fs.Int(FlagMaxUploadMB, 0, "maximum upload size in MB (default 150)")
	fs.String(FlagBackupDir, "", "backup directory")
	fs.String(FlagS3Bucket, "", "S3 bucket to mirror backups to")
	fs.String(FlagS3Region, "", "S3 region")
	fs.String(FlagS3Endpoint, "", "S3-compatible endpoint URL")
	fs.String(FlagS3Prefix, "", "object key prefix in the bucket")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, "", "log format: text or json")
	fs.String(FlagActor, "", "name recorded in the activity log")
}

// EnvFiles returns the --env-file values, if the flag is registered.
func EnvFiles(fs *pflag.FlagSet) []string {
	v, _ := fs.GetStringSlice(FlagEnvFile)
	return v
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed(FlagStorageRoot) {
		v, err := fs.GetString(FlagStorageRoot)
		if err != nil {
			return err
		}
		cfg.SetStorageRoot(v)
	}

	for name, dst := range map[string]*string{
		FlagPreviewDir: &cfg.TempPreviewDir,
		FlagKeyPath:    &cfg.KeyPath,
		FlagDBDriver:   &cfg.DatabaseDriver,
		FlagDBDSN:      &cfg.DatabaseDSN,
		FlagBackupDir:  &cfg.BackupDir,
		FlagS3Bucket:   &cfg.S3Bucket,
		FlagS3Region:   &cfg.S3Region,
		FlagS3Endpoint: &cfg.S3BaseEndpoint,
		FlagS3Prefix:   &cfg.S3Prefix,
		FlagLogLevel:   &cfg.LogLevel,
		FlagLogFormat:  &cfg.LogFormat,
		FlagActor:      &cfg.Actor,
	} {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if fs.Changed(FlagMaxUploadMB) {
		v, err := fs.GetInt(FlagMaxUploadMB)
		if err != nil {
			return err
		}
		cfg.MaxUploadSizeMB = v
	}
	return nil
}
