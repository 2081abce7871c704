// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/migrations"
	"github.com/stretchr/testify/require"
)

// Open returns a fresh SQLite database with every migration applied.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, d, err := dbx.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, d))
	return db
}

// Exec runs a statement and fails the test on error. It returns the last
// inserted id.
func Exec(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(query, args...)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
