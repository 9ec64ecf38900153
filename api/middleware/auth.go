package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mateoguzman/skylens-backend/api/responses"
	"github.com/mateoguzman/skylens-backend/internal/principal"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

// PrincipalResolver turns a bearer token into a hydrated caller.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*principal.Principal, error)
}

// Auth extracts the bearer token, resolves the caller against current
// database state, and seeds the request context. Identity and profile are
// loaded fresh on every request; nothing authorization-relevant is trusted
// from the token itself.
func Auth(resolver PrincipalResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			p, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    p.UserID().String(),
					"actor_role": string(p.Profile.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
