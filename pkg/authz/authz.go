package authz

import (
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
)

// Capability decisions over a loaded profile. An inactive account is denied
// everything regardless of its flags: is_active is a kill-switch, not a flag.

func CanViewDashboard(p *models.Profile) bool {
	return p != nil && p.IsActive && p.CanViewDashboard
}

func CanViewClusters(p *models.Profile) bool {
	return p != nil && p.IsActive && p.CanViewClusters
}

func CanViewReports(p *models.Profile) bool {
	return p != nil && p.IsActive && p.CanViewReports
}

// CanManageUsers gates destructive admin actions behind both the admin role
// and the manage flag. Either alone is insufficient: flags can be revoked
// independently of role reassignment.
func CanManageUsers(p *models.Profile) bool {
	return p != nil && p.IsActive && p.Role == enums.RoleAdmin && p.CanManageUsers
}
