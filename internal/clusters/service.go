package clusters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
)

// Service lists clusters through the caller's grants. Visibility is purely
// grant-driven: no role widens it.
type Service interface {
	VisibleClusters(ctx context.Context, userID uuid.UUID) ([]ClusterDTO, error)
	VisibleClusterIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type clusterRepository interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Cluster, error)
}

type permissionLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ClusterPermission, error)
}

// ServiceParams bundles the dependencies for the clusters service.
type ServiceParams struct {
	ClusterRepo    clusterRepository
	PermissionRepo permissionLister
}

type service struct {
	clusters clusterRepository
	perms    permissionLister
}

func NewService(params ServiceParams) (Service, error) {
	if params.ClusterRepo == nil {
		return nil, fmt.Errorf("cluster repository is required")
	}
	if params.PermissionRepo == nil {
		return nil, fmt.Errorf("permission repository is required")
	}
	return &service{
		clusters: params.ClusterRepo,
		perms:    params.PermissionRepo,
	}, nil
}

func (s *service) VisibleClusters(ctx context.Context, userID uuid.UUID) ([]ClusterDTO, error) {
	ids, err := s.VisibleClusterIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	list, err := s.clusters.ListByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list clusters")
	}
	return FromModels(list), nil
}

// VisibleClusterIDs resolves the caller's grants to cluster IDs. An empty
// result is valid: a user with no grants sees nothing.
func (s *service) VisibleClusterIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	perms, err := s.perms.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list grants")
	}

	ids := make([]uuid.UUID, 0, len(perms))
	for _, perm := range perms {
		if perm.CanView {
			ids = append(ids, perm.ClusterID)
		}
	}
	return ids, nil
}
