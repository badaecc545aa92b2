package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a platform user with a metered credit balance.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	Name          string         `gorm:"not null" json:"name" validate:"required"`
	Credits       int            `gorm:"not null;default:20" json:"credits" validate:"gte=0"`
	TotalCreation int            `gorm:"not null;default:0" json:"total_creation"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
