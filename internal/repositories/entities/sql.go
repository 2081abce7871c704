package entities

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

// labelQueries select the label components per type. Concatenation happens in
// Go so NULL handling is identical on every dialect.
var labelQueries = map[models.EntityType]string{
	models.EntityTenant:   `SELECT first_name, last_name FROM tenants WHERE tenant_id = ?`,
	models.EntityLandlord: `SELECT first_name, last_name FROM landlords WHERE landlord_id = ?`,
	models.EntityProperty: `SELECT door_number, street, postcode FROM properties WHERE property_id = ?`,
	models.EntityTenancy: `SELECT t.start_date, p.door_number, p.street, p.postcode
		FROM tenancies t LEFT JOIN properties p ON p.property_id = t.property_id
		WHERE t.tenancy_id = ?`,
}

func (r *SQLRepository) Label(ctx context.Context, t models.EntityType, id int64) (string, bool, error) {
	query, ok := labelQueries[t]
	if !ok {
		return "", false, fmt.Errorf("%w: %q", common.ErrUnknownEntityType, t)
	}

	var f [4]sql.NullString
	dest := []any{&f[0], &f[1]}
	switch t {
	case models.EntityProperty:
		dest = append(dest, &f[2])
	case models.EntityTenancy:
		dest = append(dest, &f[2], &f[3])
	}

	err := r.db.QueryRowContext(ctx, query, id).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error selecting %s label: %w", t, err)
	}

	for i := range dest {
		if !f[i].Valid {
			return "", false, nil
		}
	}

	var label string
	switch t {
	case models.EntityTenant, models.EntityLandlord:
		label = f[0].String + " " + f[1].String
	case models.EntityProperty:
		label = f[0].String + " " + f[1].String + ", " + f[2].String
	case models.EntityTenancy:
		label = f[0].String + "_" + f[1].String + "_" + f[2].String + "_" + f[3].String
	}
	return label, label != "", nil
}

func (r *SQLRepository) Exists(ctx context.Context, t models.EntityType, id int64) (bool, error) {
	if !t.Valid() {
		return false, fmt.Errorf("%w: %q", common.ErrUnknownEntityType, t)
	}

	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = ?`, t.EntityTable(), t.OwnerColumn())

	var one int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLRepository) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLRepository) CreateTenant(ctx context.Context, v *models.Tenant) (int64, error) {
	id, err := r.insert(ctx, `INSERT INTO tenants (first_name, last_name, email, phone, status)
		VALUES (?, ?, ?, ?, 'Active') RETURNING tenant_id`, v.FirstName, v.LastName, v.Email, v.Phone)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tenant: %w", err)
	}
	v.ID = id
	return id, nil
}

func (r *SQLRepository) CreateLandlord(ctx context.Context, v *models.Landlord) (int64, error) {
	id, err := r.insert(ctx, `INSERT INTO landlords (first_name, last_name, email, phone, status)
		VALUES (?, ?, ?, ?, 'Active') RETURNING landlord_id`, v.FirstName, v.LastName, v.Email, v.Phone)
	if err != nil {
		return 0, fmt.Errorf("failed to insert landlord: %w", err)
	}
	v.ID = id
	return id, nil
}

func (r *SQLRepository) CreateProperty(ctx context.Context, v *models.Property) (int64, error) {
	id, err := r.insert(ctx, `INSERT INTO properties (door_number, street, postcode, city, landlord_id, status)
		VALUES (?, ?, ?, ?, ?, 'Available') RETURNING property_id`, v.DoorNumber, v.Street, v.Postcode, v.City, v.LandlordID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property: %w", err)
	}
	v.ID = id
	return id, nil
}

// CreateTenancy inserts the tenancy and its tenant links. Callers wanting
// atomicity pass a transaction from dbx.WithTx.
func (r *SQLRepository) CreateTenancy(ctx context.Context, v *models.Tenancy) (int64, error) {
	var end any
	if v.EndDate != "" {
		end = v.EndDate
	}

	id, err := r.insert(ctx, `INSERT INTO tenancies (property_id, start_date, end_date, status)
		VALUES (?, ?, ?, 'Active') RETURNING tenancy_id`, v.PropertyID, v.StartDate, end)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tenancy: %w", err)
	}

	for _, tid := range v.TenantIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO tenancy_tenants (tenancy_id, tenant_id) VALUES (?, ?)`, id, tid); err != nil {
			return 0, fmt.Errorf("failed to link tenant %d: %w", tid, err)
		}
	}

	v.ID = id
	return id, nil
}

func (r *SQLRepository) Delete(ctx context.Context, t models.EntityType, id int64) (int64, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownEntityType, t)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, t.EntityTable(), t.OwnerColumn())
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", t, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
