package middleware

import (
	"context"

	"github.com/mateoguzman/skylens-backend/internal/principal"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the resolved caller, or nil outside an
// authenticated route.
func PrincipalFromContext(ctx context.Context) *principal.Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(ctxPrincipal).(*principal.Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal injects the resolved caller into the context.
func WithPrincipal(ctx context.Context, p *principal.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}
