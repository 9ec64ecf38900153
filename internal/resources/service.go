package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
)

// ResourceDTO is the transport shape of a tracked resource.
type ResourceDTO struct {
	ID           uuid.UUID           `json:"id"`
	ClusterID    uuid.UUID           `json:"cluster_id"`
	AccountID    string              `json:"account_id"`
	ResourceType string              `json:"resource_type"`
	Name         string              `json:"name"`
	Region       string              `json:"region,omitempty"`
	State        enums.ResourceState `json:"state"`
	MonthlyCost  decimal.Decimal     `json:"monthly_cost"`
	FirstSeenAt  time.Time           `json:"first_seen_at"`
	LastSeenAt   time.Time           `json:"last_seen_at"`
}

// DashboardStats is the aggregate returned for the dashboard view.
type DashboardStats struct {
	TotalResources   int64           `json:"total_resources"`
	UnusedResources  int64           `json:"unused_resources"`
	TotalMonthlyCost decimal.Decimal `json:"total_monthly_cost"`
	Clusters         []ClusterStats  `json:"clusters"`
}

// Service reads resources through the caller's cluster visibility.
type Service interface {
	ListVisible(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]ResourceDTO, error)
	StatsVisible(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
}

type resourceRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Resource, error)
	StatsByCluster(ctx context.Context, clusterIDs []uuid.UUID) ([]ClusterStats, error)
}

type visibilityResolver interface {
	VisibleClusterIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ServiceParams bundles the dependencies for the resources service.
type ServiceParams struct {
	ResourceRepo resourceRepository
	Visibility   visibilityResolver
}

type service struct {
	resources  resourceRepository
	visibility visibilityResolver
}

func NewService(params ServiceParams) (Service, error) {
	if params.ResourceRepo == nil {
		return nil, fmt.Errorf("resource repository is required")
	}
	if params.Visibility == nil {
		return nil, fmt.Errorf("visibility resolver is required")
	}
	return &service{
		resources:  params.ResourceRepo,
		visibility: params.Visibility,
	}, nil
}

// ListVisible narrows the filter to the caller's visible clusters before
// querying. Asking for a cluster without a grant is refused outright; an
// unfiltered call with no grants gets an empty list, never an error.
func (s *service) ListVisible(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]ResourceDTO, error) {
	visible, err := s.visibility.VisibleClusterIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(filter.ClusterIDs) > 0 {
		if !covered(filter.ClusterIDs, visible) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cluster access denied")
		}
	} else {
		if len(visible) == 0 {
			return []ResourceDTO{}, nil
		}
		filter.ClusterIDs = visible
	}

	list, err := s.resources.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list resources")
	}

	out := make([]ResourceDTO, 0, len(list))
	for i := range list {
		out = append(out, fromModel(&list[i]))
	}
	return out, nil
}

// StatsVisible aggregates counts and spend across the caller's visible
// clusters.
func (s *service) StatsVisible(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	visible, err := s.visibility.VisibleClusterIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalMonthlyCost: decimal.Zero,
		Clusters:         []ClusterStats{},
	}
	if len(visible) == 0 {
		return stats, nil
	}

	perCluster, err := s.resources.StatsByCluster(ctx, visible)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate resources")
	}

	for _, cs := range perCluster {
		stats.TotalResources += cs.Total
		stats.UnusedResources += cs.Unused
		stats.TotalMonthlyCost = stats.TotalMonthlyCost.Add(cs.MonthlyCost)
	}
	stats.Clusters = perCluster
	return stats, nil
}

func fromModel(r *models.Resource) ResourceDTO {
	return ResourceDTO{
		ID:           r.ID,
		ClusterID:    r.ClusterID,
		AccountID:    r.AccountID,
		ResourceType: r.ResourceType,
		Name:         r.Name,
		Region:       r.Region,
		State:        r.State,
		MonthlyCost:  r.MonthlyCost,
		FirstSeenAt:  r.FirstSeenAt,
		LastSeenAt:   r.LastSeenAt,
	}
}

func covered(requested, visible []uuid.UUID) bool {
	allowed := make(map[uuid.UUID]struct{}, len(visible))
	for _, id := range visible {
		allowed[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := allowed[id]; !ok {
			return false
		}
	}
	return true
}
