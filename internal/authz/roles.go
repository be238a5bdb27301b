package authz

const (
	RoleSalesRep = 10
	RoleManager  = 20
	RoleAudit    = 30
	RoleHR       = 40
	RoleAdmin    = 50
)

func ValidRole(roleID int) bool {
	switch roleID {
	case RoleSalesRep, RoleManager, RoleAudit, RoleHR, RoleAdmin:
		return true
	}
	return false
}

func IsElevated(roleID int) bool {
	return roleID == RoleManager || roleID == RoleHR || roleID == RoleAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleAudit
}
