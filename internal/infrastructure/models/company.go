package models

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name                string    `gorm:"type:varchar(255);not null"`
	DefaultCurrencyCode string    `gorm:"type:varchar(3);not null;default:'USD'"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (Company) TableName() string {
	return "companies"
}
