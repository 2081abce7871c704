// Package migrations embeds the goose migrations for every supported dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

func dir(d dbx.Dialect) string {
	if d == dbx.DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Up applies every pending migration for dialect d.
func Up(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	sub, err := fs.Sub(Migrations, dir(d))
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", d, err)
	}

	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(d.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}
