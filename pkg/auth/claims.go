package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the typed JWT issued to clients. The subject carries
// only the identity id: role and capability flags are never embedded so
// authorization always reads the freshly loaded profile.
type AccessTokenClaims struct {
	IdentityID uuid.UUID `json:"identity_id"`
	jwt.RegisteredClaims
}
