package material

import (
	"slices"
	"time"

	"github.com/lib/pq"
)

// Status is the processing state of a material.
//
// Transitions are monotonic per the pipeline state machine:
// pending -> processing -> {completed | failed}. A failed material may
// re-enter processing via an explicit reprocess request; completed is
// terminal and immutable.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further automatic transition occurs from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// allowedMimeTypes is the fixed allow-list of uploadable document types.
var allowedMimeTypes = []string{
	"application/pdf",
	"text/plain",
	"text/markdown",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// MimeTypeAllowed reports whether mimeType is accepted for upload.
func MimeTypeAllowed(mimeType string) bool {
	return slices.Contains(allowedMimeTypes, mimeType)
}

// Material represents one uploaded course document.
//
// ID and StorageLocator are immutable once set. Status, ExtractedText,
// Embedding and ErrorMessage are written only by the processing pipeline
// through the repository.
type Material struct {
	// ID is an opaque unique identifier (UUID).
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	// OwnerID references the uploading identity.
	OwnerID string `gorm:"type:uuid;index" json:"ownerId"`

	// StorageLocator points into external blob storage.
	StorageLocator string `gorm:"not null" json:"storageLocator"`

	// MimeType is one of the fixed allow-list.
	MimeType string `gorm:"not null" json:"mimeType"`

	// Status is set only by the processing pipeline.
	Status Status `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`

	// ExtractedText is set once on successful processing.
	ExtractedText *string `json:"extractedText,omitempty"`

	// Embedding is the fixed-length vector produced on success, stored as
	// a PostgreSQL float8[] column.
	Embedding pq.Float64Array `gorm:"type:float8[]" json:"-"`

	// ErrorMessage is set only on failure and cleared on retry.
	ErrorMessage *string `json:"errorMessage,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName pins the table name regardless of GORM's pluralization rules.
func (Material) TableName() string {
	return "materials"
}
