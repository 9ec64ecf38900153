package clusters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
)

// Repository exposes cluster reads. Cluster rows are provisioned by the
// ingestion pipeline; this service only lists and resolves them.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every cluster ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Cluster, error) {
	var list []models.Cluster
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByIDs returns the clusters matching the given IDs, ordered by name.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Cluster, error) {
	if len(ids) == 0 {
		return []models.Cluster{}, nil
	}
	var list []models.Cluster
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID loads a single cluster.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cluster, error) {
	var cluster models.Cluster
	if err := r.db.WithContext(ctx).First(&cluster, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cluster, nil
}
