package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a single-use reset credential. Only the sha256 digest
// of the raw token is stored; `used` flips false→true exactly once.
type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;not null;index"`
	TokenHash string    `gorm:"column:token_hash;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Used      bool      `gorm:"column:used;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }
