package migrations

import (
	"context"
	"io/fs"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp_SQLiteCreatesVaultTables(t *testing.T) {
	ctx := context.Background()
	db, d, err := dbx.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Up(ctx, db, d))
	require.NoError(t, Up(ctx, db, d), "re-running must be a no-op")

	for _, table := range []string{
		"tenants", "landlords", "properties", "tenancies",
		"tenant_documents", "landlord_documents", "property_documents", "tenancy_documents",
		"property_images", "activity_logs", "entity_folders",
	} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoErrorf(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestUp_CascadeDeletesDocuments(t *testing.T) {
	ctx := context.Background()
	db, d, err := dbx.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Up(ctx, db, d))

	_, err = db.ExecContext(ctx, `INSERT INTO tenants (tenant_id, first_name, last_name) VALUES (1, 'Jane', 'Doe')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO tenant_documents (tenant_id, doc_name, file_path) VALUES (1, 'Passport', 'x.encrypted')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `DELETE FROM tenants WHERE tenant_id = 1`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenant_documents`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrations_DialectsInStep(t *testing.T) {
	lite, err := fs.Glob(Migrations, "sqlite/*.sql")
	require.NoError(t, err)
	pg, err := fs.Glob(Migrations, "postgres/*.sql")
	require.NoError(t, err)

	require.NotEmpty(t, lite)
	assert.Equal(t, len(lite), len(pg))
}
