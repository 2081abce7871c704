package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL flavour behind a connection.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "pgx"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3", "":
		return DialectSQLite, nil
	case "pgx", "postgres", "postgresql":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// GooseDialect returns the name goose uses for d.
func (d Dialect) GooseDialect() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Open opens and pings a database for driver/dsn. SQLite connections get
// foreign keys enabled and are limited to a single connection, so ":memory:"
// databases and cascade deletes behave consistently.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	d, err := ParseDialect(driver)
	if err != nil {
		return nil, "", err
	}

	if d == DialectSQLite {
		dsn = withForeignKeys(dsn)
	}

	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	if d == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db ping error: %w", err)
	}

	return db, d, nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Rebind rewrites '?' placeholders into the form d expects. Question marks
// inside single-quoted literals are left alone.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type boundDB struct {
	db      DBTX
	dialect Dialect
}

// Bind wraps db so that every query is rebound for d before execution.
// Repositories write '?' placeholders and stay dialect agnostic.
func Bind(db DBTX, d Dialect) DBTX {
	if d != DialectPostgres {
		return db
	}
	return &boundDB{db: db, dialect: d}
}

func (b *boundDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return b.db.ExecContext(ctx, Rebind(b.dialect, query), args...)
}

func (b *boundDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return b.db.QueryContext(ctx, Rebind(b.dialect, query), args...)
}

func (b *boundDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return b.db.QueryRowContext(ctx, Rebind(b.dialect, query), args...)
}
