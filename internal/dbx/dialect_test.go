package dbx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"sqlite", DialectSQLite, false},
		{"SQLite3", DialectSQLite, false},
		{"", DialectSQLite, false},
		{"pgx", DialectPostgres, false},
		{"postgres", DialectPostgres, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGooseDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", DialectSQLite.GooseDialect())
	assert.Equal(t, "postgres", DialectPostgres.GooseDialect())
}

func TestRebind(t *testing.T) {
	q := `SELECT doc_id FROM tenant_documents WHERE tenant_id = ? AND file_path = ? AND doc_name <> '?'`

	assert.Equal(t, q, Rebind(DialectSQLite, q))
	assert.Equal(t,
		`SELECT doc_id FROM tenant_documents WHERE tenant_id = $1 AND file_path = $2 AND doc_name <> '?'`,
		Rebind(DialectPostgres, q))
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "vault.db?_pragma=foreign_keys(1)", withForeignKeys("vault.db"))
	assert.Equal(t, "file:x?mode=memory&_pragma=foreign_keys(1)", withForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "a.db?_pragma=foreign_keys(0)", withForeignKeys("a.db?_pragma=foreign_keys(0)"))
}

func TestOpen_SQLiteEnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, d, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.Equal(t, DialectSQLite, d)

	var on int
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), "oracle", "x")
	require.Error(t, err)
}

func TestBind_SQLiteIsPassthrough(t *testing.T) {
	db := setupDB(t)
	bound := Bind(db, DialectSQLite)

	_, err := bound.ExecContext(context.Background(), `INSERT INTO t(v) VALUES (?)`, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db))
}
