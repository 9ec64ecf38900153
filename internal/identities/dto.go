package identities

import (
	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
)

// IdentityDTO is the transport shape that omits the credential hash.
type IdentityDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// CreateIdentityDTO holds the data required by the repo to persist a new identity.
type CreateIdentityDTO struct {
	Email        string
	PasswordHash string
}

func FromModel(i *models.Identity) *IdentityDTO {
	if i == nil {
		return nil
	}
	return &IdentityDTO{
		ID:    i.ID,
		Email: i.Email,
	}
}

func (c CreateIdentityDTO) ToModel() *models.Identity {
	return &models.Identity{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
	}
}
