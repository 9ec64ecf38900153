package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/pkg/enums"
)

// Profile holds the authorization-relevant record attached 1:1 to an Identity.
// Every valid Identity has exactly one Profile; the resolver rejects requests
// where the pair is broken.
type Profile struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	IdentityID       uuid.UUID  `gorm:"column:identity_id;type:uuid;not null;uniqueIndex"`
	Name             string     `gorm:"column:name;not null"`
	Email            string     `gorm:"column:email;not null"`
	Phone            *string    `gorm:"column:phone"`
	Role             enums.Role `gorm:"column:role;type:text;not null;default:viewer"`
	IsActive         bool       `gorm:"column:is_active;not null;default:true"`
	CanViewDashboard bool       `gorm:"column:can_view_dashboard;not null;default:false"`
	CanViewClusters  bool       `gorm:"column:can_view_clusters;not null;default:false"`
	CanViewReports   bool       `gorm:"column:can_view_reports;not null;default:false"`
	CanManageUsers   bool       `gorm:"column:can_manage_users;not null;default:false"`
	LastLoginAt      *time.Time `gorm:"column:last_login_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }
