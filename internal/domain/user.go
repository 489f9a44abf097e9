package domain

// Role enumerates the three account roles. Stored lowercase.
type Role string

const (
	RoleTeacher   Role = "teacher"
	RoleAdmin     Role = "admin"
	RolePrincipal Role = "principal"
)

// AllRoles lists every role.
var AllRoles = []Role{RoleTeacher, RoleAdmin, RolePrincipal}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleTeacher || r == RoleAdmin || r == RolePrincipal
}

// User is an account record. Password is an opaque credential compared
// verbatim by the identity provider; hardening it is out of scope.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// Principal is the role-tagged identity the provider hands back after a
// successful credential lookup. It never carries the credential.
type Principal struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// Principal strips a user record down to its identity.
func (u User) Principal() Principal {
	return Principal{Username: u.Username, Name: u.Name, Role: u.Role}
}
