package models

import (
	"time"

	"github.com/google/uuid"
)

// PendingCharge statuses.
const (
	ChargePending  = "pending"
	ChargeSettled  = "settled"
	ChargeRefunded = "refunded"
)

// PendingCharge is the durable record of a credit debit awaiting its outcome.
// It is written in the same transaction as the debit so a crash between
// charge and refund leaves a reconcilable trace.
type PendingCharge struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id" validate:"required"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	Amount    int       `gorm:"not null" json:"amount" validate:"gt=0"`
	Status    string    `gorm:"type:varchar(16);index;not null;default:'pending'" json:"status" validate:"required,oneof=pending settled refunded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
