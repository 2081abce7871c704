package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/spf13/pflag"
)

// DefaultBaseDir is the storage root used when nothing else is configured.
const DefaultBaseDir = "resources"

// Config holds runtime settings for the vault and its command line.
type Config struct {
	StorageRoot    string
	TenantsDir     string
	LandlordsDir   string
	PropertiesDir  string
	TenanciesDir   string
	TempPreviewDir string
	KeyPath        string
	BackupDir      string

	DatabaseDriver string
	DatabaseDSN    string

	// MaxUploadSizeMB is enforced by the command line before an upload.
	MaxUploadSizeMB int

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string

	LogLevel  string
	LogFormat string

	// Actor is written to the activity log for every vault action.
	Actor string
}

// derived lists the directories that live under StorageRoot by default.
func (c *Config) derived() []struct {
	field  *string
	suffix string
} {
	return []struct {
		field  *string
		suffix string
	}{
		{&c.TenantsDir, "tenants"},
		{&c.LandlordsDir, "landlords"},
		{&c.PropertiesDir, "properties"},
		{&c.TenanciesDir, "tenancies"},
		{&c.TempPreviewDir, "temp_preview"},
		{&c.KeyPath, filepath.Join("keys", "key.key")},
		{&c.BackupDir, "backups"},
		{&c.DatabaseDSN, filepath.Join("database", "propvault.db")},
	}
}

// LoadDefaults populates c with defaults rooted at DefaultBaseDir.
func (c *Config) LoadDefaults() {
	*c = Config{
		StorageRoot:     DefaultBaseDir,
		DatabaseDriver:  string(dbx.DialectSQLite),
		MaxUploadSizeMB: 150,
		S3Prefix:        "propvault/",
		LogLevel:        "info",
		LogFormat:       "text",
		Actor:           "admin",
	}
	for _, d := range c.derived() {
		*d.field = filepath.Join(DefaultBaseDir, d.suffix)
	}
}

// SetStorageRoot changes the root and moves every derived path still at its
// default location under the old root.
func (c *Config) SetStorageRoot(root string) {
	if root == "" || root == c.StorageRoot {
		return
	}
	old := c.StorageRoot
	for _, d := range c.derived() {
		if *d.field == filepath.Join(old, d.suffix) {
			*d.field = filepath.Join(root, d.suffix)
		}
	}
	c.StorageRoot = root
}

// StoragePath maps an entity type to its storage directory.
func (c *Config) StoragePath(t models.EntityType) (string, error) {
	switch t {
	case models.EntityTenant:
		return c.TenantsDir, nil
	case models.EntityLandlord:
		return c.LandlordsDir, nil
	case models.EntityProperty:
		return c.PropertiesDir, nil
	case models.EntityTenancy:
		return c.TenanciesDir, nil
	}
	return "", fmt.Errorf("no storage path for %q", t)
}

// StorageRoots returns the storage directory of every entity type.
func (c *Config) StorageRoots() map[models.EntityType]string {
	roots := make(map[models.EntityType]string, len(models.EntityTypes))
	for _, t := range models.EntityTypes {
		roots[t], _ = c.StoragePath(t)
	}
	return roots
}

// Dirs lists every directory bootstrap must create. The database directory
// is included only for SQLite.
func (c *Config) Dirs() []string {
	dirs := []string{c.TenantsDir, c.LandlordsDir, c.PropertiesDir, c.TenanciesDir, c.TempPreviewDir, c.BackupDir}
	if c.DatabaseDriver == string(dbx.DialectSQLite) || c.DatabaseDriver == "" {
		if p := c.SQLitePath(); p != "" && p != ":memory:" {
			dirs = append(dirs, filepath.Dir(p))
		}
	}
	return dirs
}

// SQLitePath strips the "file:" prefix and query string from a SQLite DSN.
func (c *Config) SQLitePath() string {
	p := strings.TrimPrefix(c.DatabaseDSN, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

// S3Enabled reports whether an S3 mirror is configured.
func (c *Config) S3Enabled() bool { return c.S3Bucket != "" }

// Validate rejects configurations the vault cannot run with.
func (c *Config) Validate() error {
	var errs []error

	for name, v := range map[string]string{
		"tenants dir":      c.TenantsDir,
		"landlords dir":    c.LandlordsDir,
		"properties dir":   c.PropertiesDir,
		"tenancies dir":    c.TenanciesDir,
		"temp preview dir": c.TempPreviewDir,
		"key path":         c.KeyPath,
		"database dsn":     c.DatabaseDSN,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	if _, err := dbx.ParseDialect(c.DatabaseDriver); err != nil {
		errs = append(errs, err)
	}
	if c.MaxUploadSizeMB < 0 {
		errs = append(errs, fmt.Errorf("max upload size must not be negative"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Options selects the optional sources for Load.
type Options struct {
	// JSONPath overrides PROPVAULT_CONFIG and the --config flag.
	JSONPath string
	// EnvFiles are passed to godotenv; missing files are ignored.
	EnvFiles []string
	// Flags, when set, must have been prepared with RegisterFlags.
	Flags *pflag.FlagSet
}

// Load builds a Config by applying defaults, JSON, environment and flags, in
// that order, and validates the result.
func Load(opts Options) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadEnvFiles(opts.EnvFiles...); err != nil {
		return nil, err
	}

	jsonPath := opts.JSONPath
	if jsonPath == "" && opts.Flags != nil {
		jsonPath, _ = opts.Flags.GetString(FlagConfig)
	}
	if jsonPath == "" {
		jsonPath = lookupEnv(EnvConfig)
	}
	if jsonPath != "" {
		if err := parseJSON(cfg, jsonPath); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		if err := applyFlags(cfg, opts.Flags); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
