package clusters

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
)

// ClusterDTO is the transport shape of a cluster.
type ClusterDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AccountIDs  string    `json:"account_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromModel(c *models.Cluster) *ClusterDTO {
	if c == nil {
		return nil
	}
	return &ClusterDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		AccountIDs:  c.AccountIDs,
		CreatedAt:   c.CreatedAt,
	}
}

func FromModels(list []models.Cluster) []ClusterDTO {
	out := make([]ClusterDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
