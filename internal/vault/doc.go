// Package vault stores entity documents encrypted at rest.
//
// The package is split in two layers. Store does the work and returns errors
// tagged with a common.Kind (not found, integrity, I/O, config, database,
// invalid). Vault wraps a Store for UI-facing callers: it serialises calls,
// logs every failure with its kind and collapses results to bool, "" or an
// empty slice, so no I/O, SQL or crypto error reaches the caller.
//
// On disk every entity owns one folder under the storage root for its type:
//
//	tenants/<id>_<label>/<mtime>_<name>.encrypted
//	properties/<id>_<label>/property_images/<epoch>_<name>
//
// The folder name is derived by FolderNamer and pinned in entity_folders on
// first upload. Previews are decrypted into a single shared scratch directory
// managed by PreviewManager.
package vault
