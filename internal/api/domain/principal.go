package domain

// Role is the access level carried by an identity token
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Principal is the authenticated caller of a request
type Principal struct {
	ID   string
	Role Role
}

// HasRole reports whether the principal holds one of roles. A nil principal
// holds none.
func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
