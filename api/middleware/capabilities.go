package middleware

import (
	"net/http"

	"github.com/mateoguzman/skylens-backend/api/responses"
	"github.com/mateoguzman/skylens-backend/pkg/authz"
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

// RequireCapability gates a route behind one capability decision. The check
// runs against the freshly loaded profile, so flag or activation changes
// take effect on the next request.
func RequireCapability(check func(*models.Profile) bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil || !check(p.Profile) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireDashboard(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireCapability(authz.CanViewDashboard, logg)
}

func RequireClusters(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireCapability(authz.CanViewClusters, logg)
}

func RequireReports(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireCapability(authz.CanViewReports, logg)
}

// RequireUserManagement is the admin dual gate: role and flag together.
func RequireUserManagement(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireCapability(authz.CanManageUsers, logg)
}
