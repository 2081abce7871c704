package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvConfig         = "PROPVAULT_CONFIG"
	EnvStorageRoot    = "PROPVAULT_STORAGE_ROOT"
	EnvTenantsDir     = "PROPVAULT_TENANTS_DIR"
	EnvLandlordsDir   = "PROPVAULT_LANDLORDS_DIR"
	EnvPropertiesDir  = "PROPVAULT_PROPERTIES_DIR"
	EnvTenanciesDir   = "PROPVAULT_TENANCIES_DIR"
	EnvTempPreviewDir = "PROPVAULT_TEMP_PREVIEW_DIR"
	EnvKeyPath        = "PROPVAULT_KEY_PATH"
	EnvBackupDir      = "PROPVAULT_BACKUP_DIR"
	EnvDBDriver       = "PROPVAULT_DB_DRIVER"
	EnvDBDSN          = "PROPVAULT_DB_DSN"
	EnvMaxUploadMB    = "PROPVAULT_MAX_UPLOAD_MB"
	EnvS3Bucket       = "PROPVAULT_S3_BUCKET"
	EnvS3Region       = "PROPVAULT_S3_REGION"
	EnvS3Endpoint     = "PROPVAULT_S3_ENDPOINT"
	EnvS3AccessKey    = "PROPVAULT_S3_ACCESS_KEY"
	EnvS3SecretKey    = "PROPVAULT_S3_SECRET_KEY"
	EnvS3Prefix       = "PROPVAULT_S3_PREFIX"
	EnvLogLevel       = "PROPVAULT_LOG_LEVEL"
	EnvLogFormat      = "PROPVAULT_LOG_FORMAT"
	EnvActor          = "PROPVAULT_ACTOR"
)

// lookupEnv is a seam for tests.
var lookupEnv = os.Getenv

// loadEnvFiles feeds .env files into the process environment. Variables that
// are already set win. With no names given, ./.env is tried.
func loadEnvFiles(names ...string) error {
	if len(names) == 0 {
		names = []string{".env"}
	}
	for _, n := range names {
		if err := godotenv.Load(n); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", n, err)
		}
	}
	return nil
}

// parseEnv overlays cfg with PROPVAULT_* variables that are set and non-empty.
func parseEnv(cfg *Config) error {
	if v := lookupEnv(EnvStorageRoot); v != "" {
		cfg.SetStorageRoot(v)
	}

	for name, dst := range map[string]*string{
		EnvTenantsDir:     &cfg.TenantsDir,
		EnvLandlordsDir:   &cfg.LandlordsDir,
		EnvPropertiesDir:  &cfg.PropertiesDir,
		EnvTenanciesDir:   &cfg.TenanciesDir,
		EnvTempPreviewDir: &cfg.TempPreviewDir,
		EnvKeyPath:        &cfg.KeyPath,
		EnvBackupDir:      &cfg.BackupDir,
		EnvDBDriver:       &cfg.DatabaseDriver,
		EnvDBDSN:          &cfg.DatabaseDSN,
		EnvS3Bucket:       &cfg.S3Bucket,
		EnvS3Region:       &cfg.S3Region,
		EnvS3Endpoint:     &cfg.S3BaseEndpoint,
		EnvS3AccessKey:    &cfg.S3AccessKey,
		EnvS3SecretKey:    &cfg.S3SecretKey,
		EnvS3Prefix:       &cfg.S3Prefix,
		EnvLogLevel:       &cfg.LogLevel,
		EnvLogFormat:      &cfg.LogFormat,
		EnvActor:          &cfg.Actor,
	} {
		if v := lookupEnv(name); v != "" {
			*dst = v
		}
	}

	if v := lookupEnv(EnvMaxUploadMB); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxUploadMB, err)
		}
		cfg.MaxUploadSizeMB = n
	}
	return nil
}
