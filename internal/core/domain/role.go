package domain

const (
	RoleAdmin     = "Admin"
	RoleCustomer  = "Customer"
	RoleModerator = "Moderator"
)

// Role is a named group a user can belong to.
type Role struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
}

// SeedRoles is the fixed role set created at startup.
var SeedRoles = []Role{
	{ID: "1", Name: RoleAdmin, NormalizedName: "ADMIN"},
	{ID: "2", Name: RoleCustomer, NormalizedName: "CUSTOMER"},
	{ID: "3", Name: RoleModerator, NormalizedName: "MODERATOR"},
}

// rolePrecedence orders roles from most to least privileged.
var rolePrecedence = []string{RoleAdmin, RoleModerator, RoleCustomer}

// PrimaryRole picks the role carried by an issued token: the most privileged
// known role the user holds. Returns "" when none of the roles is known.
func PrimaryRole(roles []string) string {
	held := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		held[r] = struct{}{}
	}
	for _, r := range rolePrecedence {
		if _, ok := held[r]; ok {
			return r
		}
	}
	return ""
}
