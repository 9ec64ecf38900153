package models

import (
	"time"

	"github.com/google/uuid"
)

// Cluster is a named grouping of AWS accounts. Visibility is granted per
// user through ClusterPermission rows.
type Cluster struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description string    `gorm:"column:description"`
	AccountIDs  string    `gorm:"column:account_ids"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Cluster) TableName() string { return "clusters" }
