// Package folders pins the folder name chosen for an entity on its first
// upload so later renames of the entity do not orphan its files.
package folders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/models"
)

type Repository interface {
	// Get returns the pinned folder name or common.ErrNotFound.
	Get(ctx context.Context, t models.EntityType, id int64) (string, error)
	// Pin records name unless a name is already pinned, and returns the
	// name that is pinned afterwards.
	Pin(ctx context.Context, t models.EntityType, id int64, name string) (string, error)
	Unpin(ctx context.Context, t models.EntityType, id int64) error
}

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Get(ctx context.Context, t models.EntityType, id int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT folder_name FROM entity_folders WHERE entity_type = ? AND entity_id = ?`,
		string(t), id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error selecting folder: %w", err)
	}
	return name, nil
}

func (r *SQLRepository) Pin(ctx context.Context, t models.EntityType, id int64, name string) (string, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entity_folders (entity_type, entity_id, folder_name) VALUES (?, ?, ?)
		ON CONFLICT (entity_type, entity_id) DO NOTHING`,
		string(t), id, name)
	if err != nil {
		return "", fmt.Errorf("failed to pin folder: %w", err)
	}
	return r.Get(ctx, t, id)
}

func (r *SQLRepository) Unpin(ctx context.Context, t models.EntityType, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM entity_folders WHERE entity_type = ? AND entity_id = ?`, string(t), id)
	if err != nil {
		return fmt.Errorf("failed to unpin folder: %w", err)
	}
	return nil
}
