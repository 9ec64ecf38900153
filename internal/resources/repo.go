package resources

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
)

// Repository exposes read access to ingested resource records.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows a resource listing. Zero values mean no filter.
type ListFilter struct {
	ClusterIDs   []uuid.UUID
	State        enums.ResourceState
	ResourceType string
	Region       string
}

// List returns resources matching the filter, newest sightings first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Resource, error) {
	query := r.db.WithContext(ctx).Model(&models.Resource{})
	if len(filter.ClusterIDs) > 0 {
		query = query.Where("cluster_id IN ?", filter.ClusterIDs)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}

	var list []models.Resource
	if err := query.Order("last_seen_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ClusterStats aggregates one cluster's resource counts and spend.
type ClusterStats struct {
	ClusterID   uuid.UUID       `json:"cluster_id"`
	Total       int64           `json:"total"`
	Unused      int64           `json:"unused"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
}

// StatsByCluster aggregates counts and monthly spend per cluster, restricted
// to the given cluster IDs.
func (r *Repository) StatsByCluster(ctx context.Context, clusterIDs []uuid.UUID) ([]ClusterStats, error) {
	if len(clusterIDs) == 0 {
		return []ClusterStats{}, nil
	}

	type row struct {
		ClusterID   uuid.UUID
		Total       int64
		Unused      int64
		MonthlyCost decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Select(
			"cluster_id, COUNT(*) AS total, SUM(CASE WHEN state = ? THEN 1 ELSE 0 END) AS unused, SUM(monthly_cost) AS monthly_cost",
			enums.ResourceStateUnused,
		).
		Where("cluster_id IN ?", clusterIDs).
		Group("cluster_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]ClusterStats, 0, len(rows))
	for _, rec := range rows {
		stats = append(stats, ClusterStats{
			ClusterID:   rec.ClusterID,
			Total:       rec.Total,
			Unused:      rec.Unused,
			MonthlyCost: rec.MonthlyCost,
		})
	}
	return stats, nil
}
