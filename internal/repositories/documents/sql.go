package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func tableFor(t models.EntityType) (table, owner string, err error) {
	if !t.Valid() {
		return "", "", fmt.Errorf("%w: %q", common.ErrUnknownEntityType, t)
	}
	return t.DocumentsTable(), t.OwnerColumn(), nil
}

func (r *SQLRepository) Insert(ctx context.Context, d *models.Document) (int64, error) {
	table, owner, err := tableFor(d.EntityType)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, doc_name, doc_type, file_path, uploaded_date, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING doc_id`, table, owner)

	var id int64
	err = r.db.QueryRowContext(ctx, query,
		d.EntityID, d.Name, d.Type, d.StoredFilename, d.UploadedDate, d.ExpiryDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	d.ID = id
	return id, nil
}

func (r *SQLRepository) ListByEntity(ctx context.Context, t models.EntityType, entityID int64) ([]*models.Document, error) {
	table, owner, err := tableFor(t)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT doc_id, %s, doc_name, doc_type, file_path, uploaded_date, expiry_date
		FROM %s WHERE %s = ? ORDER BY doc_id`, owner, table, owner)

	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("error selecting %s: %w", table, err)
	}
	defer rows.Close()

	result := make([]*models.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows, t)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLRepository) GetByFilename(ctx context.Context, t models.EntityType, entityID int64, filename string) (*models.Document, error) {
	table, owner, err := tableFor(t)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT doc_id, %s, doc_name, doc_type, file_path, uploaded_date, expiry_date
		FROM %s WHERE %s = ? AND file_path = ? ORDER BY doc_id LIMIT 1`, owner, table, owner)

	d, err := scanDocument(r.db.QueryRowContext(ctx, query, entityID, filename), t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *SQLRepository) DeleteByFilename(ctx context.Context, t models.EntityType, entityID int64, filename string) (int64, error) {
	table, owner, err := tableFor(t)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND file_path = ?`, table, owner)
	return r.exec(ctx, query, entityID, filename)
}

func (r *SQLRepository) DeleteByEntity(ctx context.Context, t models.EntityType, entityID int64) (int64, error) {
	table, owner, err := tableFor(t)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, owner)
	return r.exec(ctx, query, entityID)
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner, t models.EntityType) (*models.Document, error) {
	var (
		d                      = &models.Document{EntityType: t}
		name, docType, uploaded sql.NullString
		expiry                 sql.NullString
	)
	if err := s.Scan(&d.ID, &d.EntityID, &name, &docType, &d.StoredFilename, &uploaded, &expiry); err != nil {
		return nil, err
	}
	d.Name = name.String
	d.Type = docType.String
	d.UploadedDate = uploaded.String
	if expiry.Valid {
		v := expiry.String
		d.ExpiryDate = &v
	}
	return d, nil
}
