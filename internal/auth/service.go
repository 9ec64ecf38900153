package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/internal/identities"
	"github.com/mateoguzman/skylens-backend/internal/profiles"
	pkgAuth "github.com/mateoguzman/skylens-backend/pkg/auth"
	"github.com/mateoguzman/skylens-backend/pkg/config"
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/security"
)

// invalidCredentialsMessage is deliberately shared by every signin failure
// so responses cannot reveal whether an email is registered or an account
// is disabled.
const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error)
}

type service struct {
	identities identityRepository
	profiles   profileRepository
	jwtCfg     config.JWTConfig
}

type identityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
}

type profileRepository interface {
	FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Profile, error)
	TouchLastLogin(ctx context.Context, identityID uuid.UUID, at time.Time) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	IdentityRepo identityRepository
	ProfileRepo  profileRepository
	JWTConfig    config.JWTConfig
}

// NewService constructs a signin service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.IdentityRepo == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	return &service{
		identities: params.IdentityRepo,
		profiles:   params.ProfileRepo,
		jwtCfg:     params.JWTConfig,
	}, nil
}

func (s *service) Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error) {
	identity, profile, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.profiles.TouchLastLogin(ctx, identity.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	profile.LastLoginAt = &now

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, identity.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &AuthResponse{
		User:    identities.FromModel(identity),
		Profile: profiles.FromModel(profile),
		Session: SessionDTO{AccessToken: accessToken},
	}, nil
}

// authenticate resolves the credential pair to an active account. Unknown
// email, wrong password, and disabled account all return the same error.
func (s *service) authenticate(ctx context.Context, email, password string) (*models.Identity, *models.Profile, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	identity, err := s.identities.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup identity")
	}

	valid, err := security.VerifyPassword(password, identity.PasswordHash)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	profile, err := s.profiles.FindByIdentityID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile")
	}
	if !profile.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return identity, profile, nil
}
