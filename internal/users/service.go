package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/internal/clusterperms"
	"github.com/mateoguzman/skylens-backend/internal/identities"
	"github.com/mateoguzman/skylens-backend/internal/profiles"
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
)

// Service is the account administration surface. Every method assumes the
// caller was already authorized; capability checks live in the middleware.
type Service interface {
	List(ctx context.Context) ([]profiles.ProfileDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*profiles.ProfileDTO, error)
	Update(ctx context.Context, id uuid.UUID, patch profiles.UpdateProfileDTO) (*profiles.ProfileDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateSelf(ctx context.Context, id uuid.UUID, patch SelfUpdateRequest) (*profiles.ProfileDTO, error)
}

// SelfUpdateRequest is the patch a user may apply to their own profile.
// Role, flags, and activation are admin-only and deliberately absent.
type SelfUpdateRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type profileRepository interface {
	List(ctx context.Context) ([]models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, patch profiles.UpdateProfileDTO) (*models.Profile, error)
}

type txProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type txIdentityRepository interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

type txPermissionRepository interface {
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams bundles the dependencies for the users service.
type ServiceParams struct {
	TxRunner              txRunner
	ProfileRepo           profileRepository
	ProfileRepoFactory    func(tx *gorm.DB) txProfileRepository
	IdentityRepoFactory   func(tx *gorm.DB) txIdentityRepository
	PermissionRepoFactory func(tx *gorm.DB) txPermissionRepository
}

type service struct {
	tx             txRunner
	profiles       profileRepository
	profileRepo    func(tx *gorm.DB) txProfileRepository
	identityRepo   func(tx *gorm.DB) txIdentityRepository
	permissionRepo func(tx *gorm.DB) txPermissionRepository
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.ProfileRepoFactory == nil {
		params.ProfileRepoFactory = func(tx *gorm.DB) txProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	if params.IdentityRepoFactory == nil {
		params.IdentityRepoFactory = func(tx *gorm.DB) txIdentityRepository {
			return identities.NewRepository(tx)
		}
	}
	if params.PermissionRepoFactory == nil {
		params.PermissionRepoFactory = func(tx *gorm.DB) txPermissionRepository {
			return clusterperms.NewRepository(tx)
		}
	}
	return &service{
		tx:             params.TxRunner,
		profiles:       params.ProfileRepo,
		profileRepo:    params.ProfileRepoFactory,
		identityRepo:   params.IdentityRepoFactory,
		permissionRepo: params.PermissionRepoFactory,
	}, nil
}

func (s *service) List(ctx context.Context) ([]profiles.ProfileDTO, error) {
	list, err := s.profiles.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list profiles")
	}
	return profiles.FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*profiles.ProfileDTO, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return profiles.FromModel(profile), nil
}

// Update applies an admin patch: role, activation, capability flags, and
// contact fields are all fair game here.
func (s *service) Update(ctx context.Context, id uuid.UUID, patch profiles.UpdateProfileDTO) (*profiles.ProfileDTO, error) {
	if patch.Role != nil && !patch.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	profile, err := s.profiles.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return profiles.FromModel(profile), nil
}

// Delete removes the account and everything hanging off it in one
// transaction: cluster grants, the profile, then the identity. A half
// deleted account must never survive a crash.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		profileRepo := s.profileRepo(tx)

		profile, err := profileRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
		}

		if err := s.permissionRepo(tx).DeleteByUser(ctx, profile.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cluster grants")
		}
		if err := profileRepo.Delete(ctx, profile.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete profile")
		}
		if err := s.identityRepo(tx).Delete(ctx, profile.IdentityID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete identity")
		}
		return nil
	})
}

// UpdateSelf narrows the patch to the fields a user owns on their own
// profile before delegating to the repo.
func (s *service) UpdateSelf(ctx context.Context, id uuid.UUID, patch SelfUpdateRequest) (*profiles.ProfileDTO, error) {
	if patch.Name == nil && patch.Phone == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		patch.Name = &trimmed
	}

	profile, err := s.profiles.Update(ctx, id, profiles.UpdateProfileDTO{
		Name:  patch.Name,
		Phone: patch.Phone,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return profiles.FromModel(profile), nil
}
