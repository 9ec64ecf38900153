package controllers

import (
	"net/http"

	"github.com/mateoguzman/skylens-backend/api/responses"
	"github.com/mateoguzman/skylens-backend/api/validators"
	"github.com/mateoguzman/skylens-backend/internal/clusterperms"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

// ClusterPermissionSet reconciles one user/cluster grant. Granting returns
// the resulting row; revoking removes it and returns a plain success.
func ClusterPermissionSet(svc clusterperms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "permission service unavailable"))
			return
		}

		var body clusterperms.SetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Set(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !result.CanView {
			responses.WriteSuccess(w, map[string]bool{"success": true})
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ClusterPermissionDelete revokes the grant for the pair in the path.
// Revoking an absent grant still succeeds.
func ClusterPermissionDelete(svc clusterperms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "permission service unavailable"))
			return
		}

		userID, err := validators.UUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clusterID, err := validators.UUIDParam(r, "clusterId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.Set(r.Context(), clusterperms.SetRequest{
			UserID:    userID,
			ClusterID: clusterID,
			CanView:   false,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// ClusterPermissionCheck reports the effective visibility for the pair in
// the path. An absent grant reads as can_view false, not an error.
func ClusterPermissionCheck(svc clusterperms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "permission service unavailable"))
			return
		}

		userID, err := validators.UUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clusterID, err := validators.UUIDParam(r, "clusterId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Check(r.Context(), userID, clusterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
