package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FullName          string     `gorm:"type:varchar(100);not null"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash      string     `gorm:"type:varchar(255);not null"`
	Role              string     `gorm:"type:varchar(50);not null;default:'Employee'"`
	ManagerID         *uuid.UUID `gorm:"type:uuid;index"` // Nullable, self-referential
	IsManagerApprover bool       `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}
