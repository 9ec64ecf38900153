package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mateoguzman/skylens-backend/pkg/enums"
)

// Resource is one tracked AWS resource record produced by the ingestion
// pipeline. This service only reads them.
type Resource struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClusterID    uuid.UUID           `gorm:"column:cluster_id;type:uuid;not null;index"`
	AccountID    string              `gorm:"column:account_id;not null"`
	ResourceType string              `gorm:"column:resource_type;not null"`
	Name         string              `gorm:"column:name;not null"`
	Region       string              `gorm:"column:region"`
	State        enums.ResourceState `gorm:"column:state;type:text;not null"`
	MonthlyCost  decimal.Decimal     `gorm:"column:monthly_cost;type:numeric(14,4);not null;default:0"`
	FirstSeenAt  time.Time           `gorm:"column:first_seen_at"`
	LastSeenAt   time.Time           `gorm:"column:last_seen_at"`
}

func (Resource) TableName() string { return "resources" }
