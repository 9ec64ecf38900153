package controllers

import (
	"net/http"

	"github.com/mateoguzman/skylens-backend/api/middleware"
	"github.com/mateoguzman/skylens-backend/api/responses"
	"github.com/mateoguzman/skylens-backend/internal/clusters"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

// ClustersList returns the clusters the caller has been granted. No grants
// means an empty list, whatever the caller's role.
func ClustersList(svc clusters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cluster service unavailable"))
			return
		}

		p := middleware.PrincipalFromContext(r.Context())
		if p == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		list, err := svc.VisibleClusters(r.Context(), p.UserID())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
