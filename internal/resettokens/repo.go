package resettokens

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
)

// Repository persists single-use password reset tokens. Only token digests
// are stored; callers hash the raw token before lookup.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new reset token digest for the email.
func (r *Repository) Create(ctx context.Context, email, tokenHash string, expiresAt time.Time) (*models.PasswordResetToken, error) {
	token := &models.PasswordResetToken{
		ID:        uuid.New(),
		Email:     email,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// Consume atomically marks the token used and returns its record. The
// conditional update is the only gate: a token that is already used,
// expired, or unknown affects zero rows, so exactly one caller can ever
// win a given token.
func (r *Repository) Consume(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PasswordResetToken{}).
		Where("token_hash = ? AND used = ? AND expires_at > ?", tokenHash, false, now).
		Update("used", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var token models.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteExpired prunes tokens whose validity window has passed.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
