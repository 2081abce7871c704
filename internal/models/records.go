package models

// Tenant, Landlord, Property and Tenancy carry only the columns the vault and
// its command line use. The tables have more; they are left NULL.
type Tenant struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type Landlord struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type Property struct {
	ID         int64
	DoorNumber string
	Street     string
	Postcode   string
	City       string
	LandlordID *int64
}

type Tenancy struct {
	ID         int64
	PropertyID int64
	StartDate  string
	EndDate    string
	TenantIDs  []int64
}
