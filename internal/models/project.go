package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebsiteProject owns the edit history of one generated website.
//
// CurrentCode always equals the Code of the Version referenced by
// CurrentVersionID whenever that reference is set; the two columns are
// only ever written together.
type WebsiteProject struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id" validate:"required"`
	Name             string         `gorm:"not null" json:"name" validate:"required"`
	InitialPrompt    string         `gorm:"type:text;not null" json:"initial_prompt"`
	CurrentCode      string         `gorm:"type:text" json:"current_code"`
	CurrentVersionID *uuid.UUID     `gorm:"type:uuid" json:"current_version_id"`
	IsPublished      bool           `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Versions      []Version      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`
	Conversations []Conversation `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"conversations,omitempty"`
}
