// Package config loads runtime configuration for propvault.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults), all under ./resources.
//  2. Optional JSON file, chosen by --config or PROPVAULT_CONFIG.
//  3. .env files (loaded with godotenv, never overriding the real environment)
//     and PROPVAULT_* environment variables.
//  4. Command-line flags registered with RegisterFlags; only flags the user
//     actually set override earlier values.
//
// Changing the storage root in any source moves every derived directory that
// still sits at its default location under the old root.
//
// # JSON schema
//
//	{
//	  "storage_root": "/srv/propvault",
//	  "temp_preview_dir": "/tmp/propvault",
//	  "key_path": "/srv/propvault/keys/key.key",
//	  "database_driver": "sqlite",
//	  "database_dsn": "/srv/propvault/database/propvault.db",
//	  "max_upload_size_mb": 150,
//	  "s3": {"bucket": "vault-mirror", "region": "eu-west-2", "prefix": "propvault/"},
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config
