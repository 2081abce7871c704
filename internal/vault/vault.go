package vault

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/models"
)

// Vault is the caller-facing boundary over Store. Methods never return errors
// or panic; failures are logged and reported as false, "" or an empty slice.
// At most one operation runs at a time.
type Vault struct {
	mu    sync.Mutex
	store *Store
	log   logging.Logger
}

// New wraps store in the serialized boundary.
func New(store *Store, log logging.Logger) *Vault {
	return &Vault{store: store, log: log}
}

// Store returns the underlying store for typed-error callers.
func (v *Vault) Store() *Store { return v.store }

// Preview returns the scratch directory manager.
func (v *Vault) Preview() *PreviewManager { return v.store.Preview() }

// run executes fn under the lock, recovering panics and logging errors with
// their kind. Not-found conditions log at warn level.
func (v *Vault) run(ctx context.Context, op string, attrs []any, fn func() error) (err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = common.WithKind(common.KindIO, fmt.Errorf("panic: %v", p))
			v.log.Error(ctx, "vault operation panicked", append(attrs, "op", op, "panic", p, "stack", string(debug.Stack()))...)
		}
	}()

	err = fn()
	if err == nil {
		return nil
	}

	kind := common.KindOf(err)
	args := append(attrs, "op", op, "kind", kind.String(), "err", err)
	if kind == common.KindNotFound {
		v.log.Warn(ctx, "vault operation found nothing", args...)
	} else {
		v.log.Error(ctx, "vault operation failed", args...)
	}
	return err
}

// Upload reports whether the document was encrypted and recorded.
func (v *Vault) Upload(ctx context.Context, req UploadRequest) bool {
	attrs := []any{"entity_type", req.EntityType, "entity_id", req.EntityID, "file", req.SourcePath}
	err := v.run(ctx, "upload", attrs, func() error {
		_, err := v.store.Upload(ctx, req)
		return err
	})
	return err == nil
}

// GetDocuments returns the entity's documents, or an empty slice.
func (v *Vault) GetDocuments(ctx context.Context, t models.EntityType, id int64) []*models.Document {
	var docs []*models.Document
	attrs := []any{"entity_type", t, "entity_id", id}
	err := v.run(ctx, "get_documents", attrs, func() (err error) {
		docs, err = v.store.Documents(ctx, t, id)
		return err
	})
	if err != nil || docs == nil {
		return []*models.Document{}
	}
	return docs
}

// DeleteDocument removes the file and record; already-deleted documents
// still report true.
func (v *Vault) DeleteDocument(ctx context.Context, t models.EntityType, id int64, filename string) bool {
	attrs := []any{"entity_type", t, "entity_id", id, "file", filename}
	return v.run(ctx, "delete_document", attrs, func() error {
		return v.store.Delete(ctx, t, id, filename)
	}) == nil
}

// DecryptToTemp returns the plaintext preview path, or "" when the encrypted
// file is missing or cannot be decrypted.
func (v *Vault) DecryptToTemp(ctx context.Context, t models.EntityType, id int64, filename string) string {
	var path string
	attrs := []any{"entity_type", t, "entity_id", id, "file", filename}
	err := v.run(ctx, "decrypt_to_temp", attrs, func() (err error) {
		path, err = v.store.DecryptToTemp(ctx, t, id, filename)
		return err
	})
	if err != nil {
		return ""
	}
	return path
}

// LogActivity appends an audit entry and reports whether it was written.
func (v *Vault) LogActivity(ctx context.Context, action, details string) bool {
	return v.run(ctx, "log_activity", []any{"action", action}, func() error {
		return v.store.LogActivity(ctx, action, details)
	}) == nil
}

// DeleteEntityDocuments removes all of an entity's documents.
func (v *Vault) DeleteEntityDocuments(ctx context.Context, t models.EntityType, id int64) bool {
	attrs := []any{"entity_type", t, "entity_id", id}
	return v.run(ctx, "delete_entity_documents", attrs, func() error {
		_, err := v.store.DeleteEntityDocuments(ctx, t, id)
		return err
	}) == nil
}

// PurgePreviews empties the scratch directory and reports how many files went.
func (v *Vault) PurgePreviews(ctx context.Context) int {
	var n int
	_ = v.run(ctx, "purge_previews", nil, func() (err error) {
		n, err = v.store.Preview().Purge(ctx)
		return err
	})
	return n
}
