package models

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index"`
	SubmittedAmount     float64   `gorm:"type:decimal(12,2);not null"`
	SubmittedCurrency   string    `gorm:"type:varchar(3);not null"`
	ConvertedAmount     float64   `gorm:"type:decimal(12,2);not null"`
	ConvertedCurrency   string    `gorm:"type:varchar(3);not null;index"`
	Category            string    `gorm:"type:varchar(100);not null"`
	Description         string    `gorm:"type:text"`
	ExpenseDate         time.Time `gorm:"type:date;not null;index"`
	Status              string    `gorm:"type:varchar(50);not null;index;default:'Pending'"`
	CurrentApprovalStep int       `gorm:"not null;default:1"`
	ReceiptScanned      bool      `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
