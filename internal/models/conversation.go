package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is one immutable turn of a project's chat transcript.
// Assistant rows double as pipeline stage markers; ordering is by CreatedAt.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role" validate:"required,oneof=user assistant"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
