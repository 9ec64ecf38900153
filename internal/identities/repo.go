package identities

import (
	"context"

	"github.com/google/uuid"
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes identity persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an identities repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new identity and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateIdentityDTO) (*models.Identity, error) {
	identity := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(identity).Error; err != nil {
		return nil, err
	}
	return identity, nil
}

// FindByEmail retrieves the identity matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&identity).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

// FindByID loads an identity by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.WithContext(ctx).First(&identity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

// UpdatePasswordHash replaces the stored credential for the identity.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// UpdatePasswordHashByEmail replaces the stored credential looked up by email.
func (r *Repository) UpdatePasswordHashByEmail(ctx context.Context, email, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("email = ?", email).
		UpdateColumn("password_hash", hash).Error
}

// Delete removes the identity row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Identity{}, "id = ?", id).Error
}
