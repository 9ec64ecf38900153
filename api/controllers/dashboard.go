package controllers

import (
	"net/http"

	"github.com/mateoguzman/skylens-backend/api/middleware"
	"github.com/mateoguzman/skylens-backend/api/responses"
	"github.com/mateoguzman/skylens-backend/internal/resources"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

// DashboardStats aggregates resource counts and spend across the caller's
// visible clusters.
func DashboardStats(svc resources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "resource service unavailable"))
			return
		}

		p := middleware.PrincipalFromContext(r.Context())
		if p == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		stats, err := svc.StatsVisible(r.Context(), p.UserID())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
