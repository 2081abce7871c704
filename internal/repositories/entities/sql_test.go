package entities

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/dbtest"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewSQLRepository(db)

	tid, err := r.CreateTenant(ctx, &models.Tenant{FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	lid, err := r.CreateLandlord(ctx, &models.Landlord{FirstName: "Sam", LastName: "O'Brien"})
	require.NoError(t, err)
	pid, err := r.CreateProperty(ctx, &models.Property{DoorNumber: "12", Street: "Main St", Postcode: "AB1 2CD", LandlordID: &lid})
	require.NoError(t, err)
	tyid, err := r.CreateTenancy(ctx, &models.Tenancy{PropertyID: pid, StartDate: "2025-01-01", TenantIDs: []int64{tid}})
	require.NoError(t, err)

	tests := []struct {
		t    models.EntityType
		id   int64
		want string
	}{
		{models.EntityTenant, tid, "Jane Doe"},
		{models.EntityLandlord, lid, "Sam O'Brien"},
		{models.EntityProperty, pid, "12 Main St, AB1 2CD"},
		{models.EntityTenancy, tyid, "2025-01-01_12_Main St_AB1 2CD"},
	}
	for _, tt := range tests {
		t.Run(string(tt.t), func(t *testing.T) {
			got, ok, err := r.Label(ctx, tt.t, tt.id)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabel_MissingOrNull(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewSQLRepository(db)

	_, ok, err := r.Label(ctx, models.EntityTenant, 404)
	require.NoError(t, err)
	assert.False(t, ok)

	dbtest.Exec(t, db, `INSERT INTO tenants (tenant_id, first_name) VALUES (5, 'Solo')`)
	_, ok, err = r.Label(ctx, models.EntityTenant, 5)
	require.NoError(t, err)
	assert.False(t, ok, "NULL last name yields no label")

	dbtest.Exec(t, db, `INSERT INTO tenancies (tenancy_id, property_id, start_date) VALUES (8, NULL, '2025-02-02')`)
	_, ok, err = r.Label(ctx, models.EntityTenancy, 8)
	require.NoError(t, err)
	assert.False(t, ok, "tenancy without property yields no label")

	_, _, err = r.Label(ctx, models.EntityType("payment"), 1)
	assert.ErrorIs(t, err, common.ErrUnknownEntityType)
}

func TestExistsAndDelete(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewSQLRepository(db)

	pid, err := r.CreateProperty(ctx, &models.Property{DoorNumber: "1", Street: "High St", Postcode: "X1"})
	require.NoError(t, err)
	dbtest.Exec(t, db, `INSERT INTO property_documents (property_id, file_path) VALUES (?, 'a.encrypted')`, pid)

	ok, err := r.Exists(ctx, models.EntityProperty, pid)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := r.Delete(ctx, models.EntityProperty, pid)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err = r.Exists(ctx, models.EntityProperty, pid)
	require.NoError(t, err)
	assert.False(t, ok)

	var cnt int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM property_documents`).Scan(&cnt))
	assert.Zero(t, cnt, "document rows cascade with the property")
}
