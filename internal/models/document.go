package models

import "time"

// Document is one uploaded file. StoredFilename is relative to the entity
// folder, which is re-derivable and therefore never stored.
type Document struct {
	ID             int64
	EntityType     EntityType
	EntityID       int64
	Name           string
	Type           string
	StoredFilename string
	UploadedDate   string
	// ExpiryDate is nil when not set; only property documents use it today.
	ExpiryDate *string
}

// Image is a property photo. Images are stored unencrypted.
type Image struct {
	ID           int64
	PropertyID   int64
	Path         string
	UploadedDate string
}

// ActivityLog is one audit row.
type ActivityLog struct {
	ID        int64
	User      string
	Action    string
	Details   string
	Timestamp string
}

// DateLayout and TimestampLayout are the server-local formats stored in the
// database.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// FormatDate renders t as a stored date.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }
