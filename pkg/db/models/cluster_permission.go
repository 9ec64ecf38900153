package models

import "github.com/google/uuid"

// ClusterPermission grants one user visibility over one cluster. Absence of a
// row means no grant; a false row is never stored.
type ClusterPermission struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cluster_permissions_user_cluster"`
	ClusterID uuid.UUID `gorm:"column:cluster_id;type:uuid;not null;uniqueIndex:idx_cluster_permissions_user_cluster"`
	CanView   bool      `gorm:"column:can_view;not null;default:false"`
}

func (ClusterPermission) TableName() string { return "cluster_permissions" }
