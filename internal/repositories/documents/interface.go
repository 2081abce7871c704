package documents

import (
	"context"

	"github.com/dmitrijs2005/propkeeper/internal/models"
)

// Repository describes the document-row operations the vault needs.
type Repository interface {
	// Insert stores doc and returns the assigned doc_id.
	Insert(ctx context.Context, doc *models.Document) (int64, error)

	// ListByEntity returns all rows for the entity ordered by doc_id.
	// An entity without documents yields an empty slice.
	ListByEntity(ctx context.Context, t models.EntityType, entityID int64) ([]*models.Document, error)

	// GetByFilename returns the row for a stored filename or common.ErrNotFound.
	GetByFilename(ctx context.Context, t models.EntityType, entityID int64, filename string) (*models.Document, error)

	// DeleteByFilename removes matching rows and reports how many went.
	DeleteByFilename(ctx context.Context, t models.EntityType, entityID int64, filename string) (int64, error)

	// DeleteByEntity removes every row for the entity.
	DeleteByEntity(ctx context.Context, t models.EntityType, entityID int64) (int64, error)
}
