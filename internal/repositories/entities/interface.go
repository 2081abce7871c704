// Package entities reads and writes the tenant, landlord, property and tenancy
// tables. The vault only needs label lookups; the create and delete calls
// back the command line and tests.
package entities

import (
	"context"

	"github.com/dmitrijs2005/propkeeper/internal/models"
)

type Repository interface {
	// Label returns the human-readable label for an entity. ok is false when
	// the entity does not exist or any label field is NULL.
	Label(ctx context.Context, t models.EntityType, id int64) (label string, ok bool, err error)

	Exists(ctx context.Context, t models.EntityType, id int64) (bool, error)

	CreateTenant(ctx context.Context, v *models.Tenant) (int64, error)
	CreateLandlord(ctx context.Context, v *models.Landlord) (int64, error)
	CreateProperty(ctx context.Context, v *models.Property) (int64, error)
	CreateTenancy(ctx context.Context, v *models.Tenancy) (int64, error)

	// Delete removes the entity row. Dependent document rows go with it via
	// ON DELETE CASCADE; files on disk are the caller's concern.
	Delete(ctx context.Context, t models.EntityType, id int64) (int64, error)
}
