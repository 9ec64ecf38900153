package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new profile and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a profile by its own primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByIdentityID loads the profile attached to an identity.
func (r *Repository) FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns all profiles ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Update applies the non-nil fields of the patch to the profile row and
// returns the reloaded record.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch UpdateProfileDTO) (*models.Profile, error) {
	updates := patch.Changes()
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.Profile{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// TouchLastLogin stamps the profile's last_login_at with the given time.
func (r *Repository) TouchLastLogin(ctx context.Context, identityID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("identity_id = ?", identityID).
		UpdateColumn("last_login_at", at).Error
}

// Delete removes the profile row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Profile{}, "id = ?", id).Error
}
