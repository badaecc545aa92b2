package models

import (
	"time"

	"github.com/google/uuid"
)

// Version is an immutable snapshot of a project's generated HTML.
// Rows are append-only; rollback repoints the project, it never mutates these.
type Version struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	Code        string    `gorm:"type:text;not null" json:"code"`
	Description string    `gorm:"not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
