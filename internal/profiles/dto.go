package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
)

// ProfileDTO is the transport shape of a profile.
type ProfileDTO struct {
	ID               uuid.UUID  `json:"id"`
	IdentityID       uuid.UUID  `json:"identity_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            *string    `json:"phone,omitempty"`
	Role             enums.Role `json:"role"`
	IsActive         bool       `json:"is_active"`
	CanViewDashboard bool       `json:"can_view_dashboard"`
	CanViewClusters  bool       `json:"can_view_clusters"`
	CanViewReports   bool       `json:"can_view_reports"`
	CanManageUsers   bool       `json:"can_manage_users"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CreateProfileDTO holds the data required to persist a new profile.
type CreateProfileDTO struct {
	IdentityID       uuid.UUID
	Name             string
	Email            string
	Phone            *string
	Role             enums.Role
	IsActive         bool
	CanViewDashboard bool
	CanViewClusters  bool
	CanViewReports   bool
	CanManageUsers   bool
}

// UpdateProfileDTO is a partial patch; nil fields are left untouched.
type UpdateProfileDTO struct {
	Name             *string     `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone            *string     `json:"phone,omitempty" validate:"omitempty,max=32"`
	Role             *enums.Role `json:"role,omitempty" validate:"omitempty,oneof=viewer editor admin"`
	IsActive         *bool       `json:"is_active,omitempty"`
	CanViewDashboard *bool       `json:"can_view_dashboard,omitempty"`
	CanViewClusters  *bool       `json:"can_view_clusters,omitempty"`
	CanViewReports   *bool       `json:"can_view_reports,omitempty"`
	CanManageUsers   *bool       `json:"can_manage_users,omitempty"`
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:               p.ID,
		IdentityID:       p.IdentityID,
		Name:             p.Name,
		Email:            p.Email,
		Phone:            p.Phone,
		Role:             p.Role,
		IsActive:         p.IsActive,
		CanViewDashboard: p.CanViewDashboard,
		CanViewClusters:  p.CanViewClusters,
		CanViewReports:   p.CanViewReports,
		CanManageUsers:   p.CanManageUsers,
		LastLoginAt:      p.LastLoginAt,
		CreatedAt:        p.CreatedAt,
	}
}

func FromModels(list []models.Profile) []ProfileDTO {
	out := make([]ProfileDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	return &models.Profile{
		ID:               uuid.New(),
		IdentityID:       c.IdentityID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Role:             c.Role,
		IsActive:         c.IsActive,
		CanViewDashboard: c.CanViewDashboard,
		CanViewClusters:  c.CanViewClusters,
		CanViewReports:   c.CanViewReports,
		CanManageUsers:   c.CanManageUsers,
	}
}

// Changes converts the patch into a GORM updates map keyed by column name.
func (u UpdateProfileDTO) Changes() map[string]any {
	updates := map[string]any{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.CanViewDashboard != nil {
		updates["can_view_dashboard"] = *u.CanViewDashboard
	}
	if u.CanViewClusters != nil {
		updates["can_view_clusters"] = *u.CanViewClusters
	}
	if u.CanViewReports != nil {
		updates["can_view_reports"] = *u.CanViewReports
	}
	if u.CanManageUsers != nil {
		updates["can_manage_users"] = *u.CanManageUsers
	}
	return updates
}
