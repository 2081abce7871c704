package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityType(t *testing.T) {
	for _, in := range []string{"tenant", "Landlord", " property ", "TENANCY"} {
		got, err := ParseEntityType(in)
		require.NoError(t, err)
		assert.True(t, got.Valid())
	}

	_, err := ParseEntityType("payment")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnknownEntityType))
}

func TestEntityType_Tables(t *testing.T) {
	tests := []struct {
		t        EntityType
		docs     string
		owner    string
		entities string
	}{
		{EntityTenant, "tenant_documents", "tenant_id", "tenants"},
		{EntityLandlord, "landlord_documents", "landlord_id", "landlords"},
		{EntityProperty, "property_documents", "property_id", "properties"},
		{EntityTenancy, "tenancy_documents", "tenancy_id", "tenancies"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.docs, tt.t.DocumentsTable())
		assert.Equal(t, tt.owner, tt.t.OwnerColumn())
		assert.Equal(t, tt.entities, tt.t.EntityTable())
	}
}

func TestDocumentTypes(t *testing.T) {
	assert.Equal(t, []string{"EPC", "Gas Safety", "Electrical Cert", "Inventory", "HMO Licence", "Other"}, DocumentTypes(EntityProperty))
	assert.True(t, IsKnownDocumentType(EntityTenant, "Proof of Address"))
	assert.False(t, IsKnownDocumentType(EntityTenant, "EPC"))
	assert.Nil(t, DocumentTypes(EntityType("payment")))

	got := DocumentTypes(EntityTenancy)
	got[0] = "mutated"
	assert.Equal(t, "Tenancy Agreement", DocumentTypes(EntityTenancy)[0], "callers get a copy")
}
