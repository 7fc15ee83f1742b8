package authz

const (
	RoleUser        = 10
	RoleAgencyAdmin = 30
	RoleAdmin       = 50
)

func IsAdmin(roleID int) bool {
	return roleID == RoleAdmin
}

func IsAgencyAdmin(roleID int) bool {
	return roleID == RoleAgencyAdmin
}
