package clusterperms

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
)

// SetRequest reconciles one user's visibility of one cluster.
type SetRequest struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	ClusterID uuid.UUID `json:"cluster_id" validate:"required"`
	CanView   bool      `json:"can_view"`
}

// PermissionDTO is the transport shape of a grant check.
type PermissionDTO struct {
	UserID    uuid.UUID `json:"user_id"`
	ClusterID uuid.UUID `json:"cluster_id"`
	CanView   bool      `json:"can_view"`
}

// Service validates and applies grant changes.
type Service interface {
	Set(ctx context.Context, req SetRequest) (*PermissionDTO, error)
	Check(ctx context.Context, userID, clusterID uuid.UUID) (*PermissionDTO, error)
}

type permissionRepository interface {
	CanViewCluster(ctx context.Context, userID, clusterID uuid.UUID) (bool, error)
	Set(ctx context.Context, userID, clusterID uuid.UUID, canView bool) error
}

type profileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type clusterFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cluster, error)
}

// ServiceParams bundles the dependencies for the permissions service.
type ServiceParams struct {
	PermissionRepo permissionRepository
	ProfileRepo    profileFinder
	ClusterRepo    clusterFinder
}

type service struct {
	perms    permissionRepository
	profiles profileFinder
	clusters clusterFinder
}

func NewService(params ServiceParams) (Service, error) {
	if params.PermissionRepo == nil {
		return nil, fmt.Errorf("permission repository is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.ClusterRepo == nil {
		return nil, fmt.Errorf("cluster repository is required")
	}
	return &service{
		perms:    params.PermissionRepo,
		profiles: params.ProfileRepo,
		clusters: params.ClusterRepo,
	}, nil
}

// Set verifies both sides of the pair exist and reconciles the grant. The
// write is idempotent; repeating it is safe.
func (s *service) Set(ctx context.Context, req SetRequest) (*PermissionDTO, error) {
	if req.UserID == uuid.Nil || req.ClusterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id and cluster_id are required")
	}

	if _, err := s.profiles.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	if _, err := s.clusters.FindByID(ctx, req.ClusterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cluster not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cluster")
	}

	if err := s.perms.Set(ctx, req.UserID, req.ClusterID, req.CanView); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set permission")
	}

	return &PermissionDTO{
		UserID:    req.UserID,
		ClusterID: req.ClusterID,
		CanView:   req.CanView,
	}, nil
}

// Check reports the effective visibility for the pair. An absent grant is a
// normal answer, not an error.
func (s *service) Check(ctx context.Context, userID, clusterID uuid.UUID) (*PermissionDTO, error) {
	canView, err := s.perms.CanViewCluster(ctx, userID, clusterID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check permission")
	}
	return &PermissionDTO{
		UserID:    userID,
		ClusterID: clusterID,
		CanView:   canView,
	}, nil
}
