package clusterperms

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
)

// Repository manages per-cluster visibility grants. A grant is modelled by
// row presence: no row for a (user, cluster) pair means no access.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CanViewCluster reports whether a grant row exists for the pair. Missing
// rows deny.
func (r *Repository) CanViewCluster(ctx context.Context, userID, clusterID uuid.UUID) (bool, error) {
	var perm models.ClusterPermission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND cluster_id = ?", userID, clusterID).
		First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return perm.CanView, nil
}

// Set reconciles the grant row for the pair with the requested visibility.
// Granting upserts in a single statement so concurrent grants cannot race
// into duplicates; revoking deletes by key. Both directions are idempotent.
func (r *Repository) Set(ctx context.Context, userID, clusterID uuid.UUID, canView bool) error {
	if !canView {
		return r.db.WithContext(ctx).
			Where("user_id = ? AND cluster_id = ?", userID, clusterID).
			Delete(&models.ClusterPermission{}).Error
	}

	perm := models.ClusterPermission{
		ID:        uuid.New(),
		UserID:    userID,
		ClusterID: clusterID,
		CanView:   true,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "cluster_id"}},
			DoUpdates: clause.Assignments(map[string]any{"can_view": true}),
		}).
		Create(&perm).Error
}

// ListByUser returns every grant row held by the user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ClusterPermission, error) {
	var perms []models.ClusterPermission
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// DeleteByUser removes every grant held by the user. Used when an account is
// deleted so no orphan grants survive.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ClusterPermission{}).Error
}
