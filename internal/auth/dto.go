package auth

import (
	"github.com/mateoguzman/skylens-backend/internal/identities"
	"github.com/mateoguzman/skylens-backend/internal/profiles"
)

// SigninRequest carries the credential pair for authentication.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest contains the payload for creating a new account.
type SignupRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// SessionDTO wraps the bearer token handed to the client.
type SessionDTO struct {
	AccessToken string `json:"access_token"`
}

// AuthResponse is returned by signup and signin: the account pair plus a
// fresh session.
type AuthResponse struct {
	User    *identities.IdentityDTO `json:"user"`
	Profile *profiles.ProfileDTO    `json:"profile"`
	Session SessionDTO              `json:"session"`
}

// ResetRequestInput asks for a password reset token to be issued.
type ResetRequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetConfirmInput redeems a reset token against a new password.
type ResetConfirmInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}
