package domain

// Role identifies which kind of account a token belongs to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePartner Role = "partner"
)

// Principal is the authenticated caller as seen by the services.
// Admins own partners; partners own customers, units and reports directly.
type Principal struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the principal is an admin account.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// IsPartner reports whether the principal is a partner account.
func (p Principal) IsPartner() bool { return p.Role == RolePartner }
