package controllers

import (
	"net/http"

	"github.com/mateoguzman/skylens-backend/api/middleware"
	"github.com/mateoguzman/skylens-backend/api/responses"
	"github.com/mateoguzman/skylens-backend/api/validators"
	"github.com/mateoguzman/skylens-backend/internal/auth"
	"github.com/mateoguzman/skylens-backend/internal/identities"
	"github.com/mateoguzman/skylens-backend/internal/profiles"
	"github.com/mateoguzman/skylens-backend/internal/users"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

type currentUserResponse struct {
	User    *identities.IdentityDTO `json:"user"`
	Profile *profiles.ProfileDTO    `json:"profile"`
}

type profileResponse struct {
	Profile *profiles.ProfileDTO `json:"profile"`
}

// AuthSignup creates the identity and profile pair and opens a session.
func AuthSignup(svc auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var body auth.SignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthSignin verifies credentials and opens a session.
func AuthSignin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.SigninRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthSignout acknowledges the end of a session. Tokens are stateless, so
// there is nothing to revoke server-side; the client discards its copy.
func AuthSignout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middleware.PrincipalFromContext(r.Context()) == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		responses.WriteSuccess(w, map[string]any{})
	}
}

// AuthCurrentUser returns the caller's identity and profile as resolved for
// this request.
func AuthCurrentUser(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middleware.PrincipalFromContext(r.Context())
		if p == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		responses.WriteSuccess(w, currentUserResponse{
			User:    identities.FromModel(p.Identity),
			Profile: profiles.FromModel(p.Profile),
		})
	}
}

// AuthUpdateProfile lets the caller change their own display fields. Role,
// activation, and capability flags are not reachable from here.
func AuthUpdateProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		p := middleware.PrincipalFromContext(r.Context())
		if p == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body users.SelfUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateSelf(r.Context(), p.UserID(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profileResponse{Profile: profile})
	}
}
