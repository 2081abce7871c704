package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openLinks(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE tenancy_tenants (tenancy_id INTEGER, tenant_id INTEGER, PRIMARY KEY (tenancy_id, tenant_id))`)
	require.NoError(t, err)
	return db
}

func linkCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tenancy_tenants`).Scan(&n))
	return n
}

func link(ctx context.Context, tx DBTX, tenancy, tenant int64) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO tenancy_tenants (tenancy_id, tenant_id) VALUES (?, ?)`, tenancy, tenant)
	return err
}

func TestWithTx_Commits(t *testing.T) {
	db := openLinks(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := link(ctx, tx, 1, 1); err != nil {
			return err
		}
		return link(ctx, tx, 1, 2)
	})
	require.NoError(t, err)
	require.Equal(t, 2, linkCount(t, db))
}

func TestWithTx_RollsBackAllLinksOnError(t *testing.T) {
	db := openLinks(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, link(ctx, tx, 1, 1))
		// duplicate primary key
		return link(ctx, tx, 1, 1)
	})
	require.Error(t, err)
	require.Equal(t, 0, linkCount(t, db))
}

func TestWithTx_ReturnsCallerError(t *testing.T) {
	db := openLinks(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return boom })
	require.ErrorIs(t, err, boom)
	require.NotEqual(t, common.KindDatabase, common.KindOf(err))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openLinks(t)

	defer func() {
		require.Equal(t, "kaput", recover())
		require.Equal(t, 0, linkCount(t, db))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, link(ctx, tx, 1, 1))
		panic("kaput")
	})
}

func TestWithTx_BeginErrorIsDatabaseKind(t *testing.T) {
	db := openLinks(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	require.Error(t, err)
	require.Equal(t, common.KindDatabase, common.KindOf(err))
}

func TestWithTx_BoundHandle(t *testing.T) {
	db := openLinks(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return link(ctx, Bind(tx, DialectSQLite), 3, 4)
	})
	require.NoError(t, err)
	require.Equal(t, 1, linkCount(t, db))
}
