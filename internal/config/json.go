package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell "absent" from "empty" so a partial file only touches what it names.
type jsonConfig struct {
	StorageRoot     *string `json:"storage_root"`
	TenantsDir      *string `json:"tenants_dir"`
	LandlordsDir    *string `json:"landlords_dir"`
	PropertiesDir   *string `json:"properties_dir"`
	TenanciesDir    *string `json:"tenancies_dir"`
	TempPreviewDir  *string `json:"temp_preview_dir"`
	KeyPath         *string `json:"key_path"`
	BackupDir       *string `json:"backup_dir"`
	DatabaseDriver  *string `json:"database_driver"`
	DatabaseDSN     *string `json:"database_dsn"`
	MaxUploadSizeMB *int    `json:"max_upload_size_mb"`
	LogLevel        *string `json:"log_level"`
	LogFormat       *string `json:"log_format"`
	Actor           *string `json:"actor"`

	S3 *struct {
		Bucket       *string `json:"bucket"`
		Region       *string `json:"region"`
		BaseEndpoint *string `json:"base_endpoint"`
		AccessKey    *string `json:"access_key"`
		SecretKey    *string `json:"secret_key"`
		Prefix       *string `json:"prefix"`
	} `json:"s3"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// parseJSON overlays cfg with the values present in the file at path.
func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.StorageRoot != nil {
		cfg.SetStorageRoot(*jc.StorageRoot)
	}
	set(&cfg.TenantsDir, jc.TenantsDir)
	set(&cfg.LandlordsDir, jc.LandlordsDir)
	set(&cfg.PropertiesDir, jc.PropertiesDir)
	set(&cfg.TenanciesDir, jc.TenanciesDir)
	set(&cfg.TempPreviewDir, jc.TempPreviewDir)
	set(&cfg.KeyPath, jc.KeyPath)
	set(&cfg.BackupDir, jc.BackupDir)
	set(&cfg.DatabaseDriver, jc.DatabaseDriver)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.MaxUploadSizeMB, jc.MaxUploadSizeMB)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)
	set(&cfg.Actor, jc.Actor)

	if s3 := jc.S3; s3 != nil {
		set(&cfg.S3Bucket, s3.Bucket)
		set(&cfg.S3Region, s3.Region)
		set(&cfg.S3BaseEndpoint, s3.BaseEndpoint)
		set(&cfg.S3AccessKey, s3.AccessKey)
		set(&cfg.S3SecretKey, s3.SecretKey)
		set(&cfg.S3Prefix, s3.Prefix)
	}
	return nil
}
