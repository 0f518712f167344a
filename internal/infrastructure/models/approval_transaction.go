package models

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalTransaction rows are append-only. There is no UpdatedAt or
// DeletedAt on purpose; the only mutation ever applied is nulling
// ApproverID when the approver's user record is removed.
type ApprovalTransaction struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ExpenseID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ApproverID   *uuid.UUID `gorm:"type:uuid;index"` // Nullable
	StepSequence int        `gorm:"not null"`
	Decision     string     `gorm:"type:varchar(50);not null"`
	Comments     string     `gorm:"type:text"`
	CreatedAt    time.Time
}
