// Package models defines the vault's data types: the entity kinds documents
// attach to, document and image records, and audit log entries.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/propkeeper/internal/common"
)

// EntityType is one of the four record kinds a document can belong to.
type EntityType string

const (
	EntityTenant   EntityType = "tenant"
	EntityLandlord EntityType = "landlord"
	EntityProperty EntityType = "property"
	EntityTenancy  EntityType = "tenancy"
)

// EntityTypes lists every supported kind in a stable order.
var EntityTypes = []EntityType{EntityTenant, EntityLandlord, EntityProperty, EntityTenancy}

// ParseEntityType validates s. Unknown values wrap common.ErrUnknownEntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownEntityType, s)
	}
	return t, nil
}

func (t EntityType) Valid() bool {
	switch t {
	case EntityTenant, EntityLandlord, EntityProperty, EntityTenancy:
		return true
	}
	return false
}

func (t EntityType) String() string { return string(t) }

// DocumentsTable is the *_documents table holding t's document rows.
func (t EntityType) DocumentsTable() string { return string(t) + "_documents" }

// OwnerColumn is the foreign key column naming the owning entity.
func (t EntityType) OwnerColumn() string { return string(t) + "_id" }

// EntityTable is the table holding t's own rows.
func (t EntityType) EntityTable() string {
	if t == EntityProperty {
		return "properties"
	}
	if t == EntityTenancy {
		return "tenancies"
	}
	return string(t) + "s"
}

var documentTypes = map[EntityType][]string{
	EntityTenant:   {"ID", "Proof of Address", "Contract", "Other"},
	EntityLandlord: {"ID", "Proof of Ownership", "Agreement", "Other"},
	EntityProperty: {"EPC", "Gas Safety", "Electrical Cert", "Inventory", "HMO Licence", "Other"},
	EntityTenancy:  {"Tenancy Agreement", "Deposit Info", "Inspection Report", "Other"},
}

// DocumentTypes returns the doc_type vocabulary offered for t. The vault stores
// any string; this list only feeds pickers and warnings.
func DocumentTypes(t EntityType) []string {
	return append([]string(nil), documentTypes[t]...)
}

// IsKnownDocumentType reports whether docType is in t's vocabulary.
func IsKnownDocumentType(t EntityType, docType string) bool {
	for _, v := range documentTypes[t] {
		if v == docType {
			return true
		}
	}
	return false
}
