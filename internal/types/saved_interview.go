package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SavedInterview is one persisted host document. DocumentName is unique per
// save; colliding names get a numeric suffix before insert. LastDiagnostics
// caches the lint findings of the embedded interview_order body at save
// time.
type SavedInterview struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentName    string         `gorm:"uniqueIndex;not null" json:"document_name"`
	Body            string         `gorm:"type:text;not null" json:"body"`
	ByteSize        int            `gorm:"not null" json:"byte_size"`
	LastDiagnostics datatypes.JSON `json:"last_diagnostics,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SavedInterview) TableName() string { return "saved_interview" }
