package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/internal/identities"
	"github.com/mateoguzman/skylens-backend/internal/profiles"
	pkgAuth "github.com/mateoguzman/skylens-backend/pkg/auth"
	"github.com/mateoguzman/skylens-backend/pkg/config"
	"github.com/mateoguzman/skylens-backend/pkg/db"
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/security"
)

// RegisterService handles the signup transaction.
type RegisterService interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
}

// txRunner abstracts db.Client.WithTx so services can be tested without a
// live database.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerIdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	Create(ctx context.Context, dto identities.CreateIdentityDTO) (*models.Identity, error)
}

type registerProfileRepository interface {
	Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error)
}

// RegisterServiceParams packages the dependencies for the signup flow. Repo
// factories are handed the transaction handle so every write lands in the
// same transaction.
type RegisterServiceParams struct {
	TxRunner            txRunner
	IdentityRepoFactory func(tx *gorm.DB) registerIdentityRepository
	ProfileRepoFactory  func(tx *gorm.DB) registerProfileRepository
	PasswordConfig      config.PasswordConfig
	JWTConfig           config.JWTConfig
	Defaults            config.DefaultsConfig
}

type registerService struct {
	tx           txRunner
	identityRepo func(tx *gorm.DB) registerIdentityRepository
	profileRepo  func(tx *gorm.DB) registerProfileRepository
	passwordCfg  config.PasswordConfig
	jwtCfg       config.JWTConfig
	defaults     config.DefaultsConfig
}

// NewRegisterService builds a signup service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.IdentityRepoFactory == nil {
		params.IdentityRepoFactory = func(tx *gorm.DB) registerIdentityRepository {
			return identities.NewRepository(tx)
		}
	}
	if params.ProfileRepoFactory == nil {
		params.ProfileRepoFactory = func(tx *gorm.DB) registerProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	return &registerService{
		tx:           params.TxRunner,
		identityRepo: params.IdentityRepoFactory,
		profileRepo:  params.ProfileRepoFactory,
		passwordCfg:  params.PasswordConfig,
		jwtCfg:       params.JWTConfig,
		defaults:     params.Defaults,
	}, nil
}

// Signup creates the identity and its profile in one transaction so no
// account can exist half-made. New profiles get the configured capability
// defaults and never the admin role.
func (s *registerService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var identity *models.Identity
	var profile *models.Profile

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		identityRepo := s.identityRepo(tx)
		profileRepo := s.profileRepo(tx)

		if _, err := identityRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check identity email")
		}

		identity, err = identityRepo.Create(ctx, identities.CreateIdentityDTO{
			Email:        email,
			PasswordHash: passwordHash,
		})
		if err != nil {
			// Concurrent signups can pass the pre-check; the unique index
			// is the real arbiter.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create identity")
		}

		profile, err = profileRepo.Create(ctx, profiles.CreateProfileDTO{
			IdentityID:       identity.ID,
			Name:             strings.TrimSpace(req.Name),
			Email:            email,
			Phone:            req.Phone,
			Role:             enums.RoleViewer,
			IsActive:         true,
			CanViewDashboard: s.defaults.CanViewDashboard,
			CanViewClusters:  s.defaults.CanViewClusters,
			CanViewReports:   s.defaults.CanViewReports,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), identity.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &AuthResponse{
		User:    identities.FromModel(identity),
		Profile: profiles.FromModel(profile),
		Session: SessionDTO{AccessToken: accessToken},
	}, nil
}
