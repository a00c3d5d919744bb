package policy

import (
	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/gate"
	"github.com/diewo77/talentos/internal/models"
)

// Resources guarded by the access gate.
const (
	ResourceAccount     = "account"
	ResourcePosting     = "posting"
	ResourceApplication = "application"
	ResourceResume      = "resume"
	ResourceDashboard   = "dashboard"
	ResourceMaintenance = "maintenance"
)

// staffProfile covers admin and rh. Deletes and maintenance are master-only.
var staffProfile = gate.NewProfile("staff",
	gate.NewPermission(ResourceAccount, gate.ActionList),
	gate.NewPermission(ResourceAccount, gate.ActionView),
	gate.NewPermission(ResourceAccount, gate.ActionCreate),
	gate.NewPermission(ResourceAccount, gate.ActionUpdate),
	gate.NewPermission(ResourcePosting, gate.ActionList),
	gate.NewPermission(ResourcePosting, gate.ActionView),
	gate.NewPermission(ResourcePosting, gate.ActionCreate),
	gate.NewPermission(ResourcePosting, gate.ActionUpdate),
	gate.NewPermission(ResourceApplication, gate.Wildcard),
	gate.NewPermission(ResourceResume, gate.ActionView),
	gate.NewPermission(ResourceDashboard, gate.ActionView),
)

var masterProfile = gate.NewProfile("master", gate.PermissionAll)

// ProfileFor maps a role to its permission profile. Unknown roles get nil,
// which denies everything.
func ProfileFor(role models.Role) *gate.Profile {
	switch role {
	case models.RoleMaster:
		return masterProfile
	case models.RoleAdmin, models.RoleRH:
		return staffProfile
	}
	return nil
}

func profileOf(id auth.Identity) *gate.Profile {
	role, ok := models.ParseRole(id.Role)
	if !ok {
		return nil
	}
	return ProfileFor(role)
}

func identityOf(a *models.Account) auth.Identity {
	return auth.Identity{AccountID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role)}
}
