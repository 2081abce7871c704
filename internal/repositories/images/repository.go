// Package images stores property photo rows. Paths are relative to the
// storage root.
package images

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, img *models.Image) (int64, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]*models.Image, error)
	Delete(ctx context.Context, imageID int64) (int64, error)
}

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Insert(ctx context.Context, img *models.Image) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO property_images (property_id, image_path, uploaded_date) VALUES (?, ?, ?) RETURNING image_id`,
		img.PropertyID, img.Path, img.UploadedDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}
	img.ID = id
	return id, nil
}

func (r *SQLRepository) ListByProperty(ctx context.Context, propertyID int64) ([]*models.Image, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT image_id, property_id, image_path, COALESCE(uploaded_date, '') FROM property_images
		WHERE property_id = ? ORDER BY image_id`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("error selecting images: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Image, 0)
	for rows.Next() {
		img := &models.Image{}
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.Path, &img.UploadedDate); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	return result, rows.Err()
}

func (r *SQLRepository) Delete(ctx context.Context, imageID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM property_images WHERE image_id = ?`, imageID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
