package vault

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/cryptox"
	"github.com/dmitrijs2005/propkeeper/internal/dbtest"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/activity"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/documents"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/entities"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/folders"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/images"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db       *sql.DB
	base     string
	roots    Roots
	keys     *cryptox.KeyStore
	preview  *PreviewManager
	folders  *FolderNamer
	store    *Store
	vault    *Vault
	images   *ImageStore
	entities *entities.SQLRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t)
	base := t.TempDir()
	log := logging.Discard()

	roots := Roots{
		models.EntityTenant:   filepath.Join(base, "tenants"),
		models.EntityLandlord: filepath.Join(base, "landlords"),
		models.EntityProperty: filepath.Join(base, "properties"),
		models.EntityTenancy:  filepath.Join(base, "tenancies"),
	}

	keys := cryptox.NewKeyStore(filepath.Join(base, "keys", "key.key"))
	_, err := keys.EnsureKey()
	require.NoError(t, err)

	ents := entities.NewSQLRepository(db)
	namer := NewFolderNamer(ents, folders.NewSQLRepository(db), log)
	preview := NewPreviewManager(filepath.Join(base, "temp_preview"), log)

	store := NewStore(Deps{
		Keys:      keys,
		Documents: documents.NewSQLRepository(db),
		Activity:  activity.NewSQLRepository(db),
		Folders:   namer,
		Preview:   preview,
		Roots:     roots,
		Logger:    log,
	})

	return &testEnv{
		db:       db,
		base:     base,
		roots:    roots,
		keys:     keys,
		preview:  preview,
		folders:  namer,
		store:    store,
		vault:    New(store, log),
		images:   NewImageStore(roots[models.EntityProperty], namer, images.NewSQLRepository(db), log),
		entities: ents,
	}
}

// writeSource creates a plaintext file with a fixed mtime.
func writeSource(t *testing.T, dir, name string, data []byte, mtime time.Time) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	require.NoError(t, os.Chtimes(p, mtime, mtime))
	return p
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}
