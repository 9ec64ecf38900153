package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the minimal authenticable account record. Authorization data
// lives on the linked Profile.
type Identity struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Identity) TableName() string { return "identities" }
