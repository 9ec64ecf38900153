package principal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/pkg/auth"
	"github.com/mateoguzman/skylens-backend/pkg/config"
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
)

// Principal is the fully hydrated caller of an authenticated request. Both
// records are loaded fresh per request so revocations and flag changes apply
// immediately, never from token claims.
type Principal struct {
	Identity *models.Identity
	Profile  *models.Profile
}

// UserID returns the profile ID, the key grants and admin operations use.
func (p *Principal) UserID() uuid.UUID {
	if p == nil || p.Profile == nil {
		return uuid.Nil
	}
	return p.Profile.ID
}

// IdentityStore is the identity lookup the resolver needs.
type IdentityStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
}

// ProfileStore is the profile lookup the resolver needs.
type ProfileStore interface {
	FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Profile, error)
}

// Resolver turns a bearer token into a Principal.
type Resolver struct {
	jwtCfg     config.JWTConfig
	identities IdentityStore
	profiles   ProfileStore
}

func NewResolver(jwtCfg config.JWTConfig, identities IdentityStore, profiles ProfileStore) *Resolver {
	return &Resolver{
		jwtCfg:     jwtCfg,
		identities: identities,
		profiles:   profiles,
	}
}

// Resolve validates the token and loads the identity/profile pair. Every
// failure surfaces as a single unauthorized error; internal wrapping keeps
// the real cause for logs without leaking which check failed.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := auth.ParseAccessToken(r.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	identity, err := r.identities.FindByID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading identity")
	}

	profile, err := r.profiles.FindByIdentityID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading profile")
	}

	return &Principal{Identity: identity, Profile: profile}, nil
}
