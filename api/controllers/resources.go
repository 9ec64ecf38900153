package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/api/middleware"
	"github.com/mateoguzman/skylens-backend/api/responses"
	"github.com/mateoguzman/skylens-backend/internal/resources"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

// ResourcesList returns resources scoped to the caller's granted clusters.
// Supported query filters: cluster_id (repeatable), state, resource_type,
// region. Asking for a cluster the caller cannot see is a hard refusal.
func ResourcesList(svc resources.Service, logg *logger.Logger) http.HandlerFunc {
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

		filter, err := listFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListVisible(r.Context(), p.UserID(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func listFilterFromQuery(r *http.Request) (resources.ListFilter, error) {
	var filter resources.ListFilter

	query := r.URL.Query()
	for _, raw := range query["cluster_id"] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cluster_id must be a valid uuid")
		}
		filter.ClusterIDs = append(filter.ClusterIDs, id)
	}

	if raw := strings.TrimSpace(query.Get("state")); raw != "" {
		state, err := enums.ParseResourceState(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid state filter")
		}
		filter.State = state
	}

	filter.ResourceType = strings.TrimSpace(query.Get("resource_type"))
	filter.Region = strings.TrimSpace(query.Get("region"))
	return filter, nil
}
