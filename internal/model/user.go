package model

// Role names a capability a user holds.
type Role string

const (
	RoleDiner      Role = "diner"
	RoleFranchisee Role = "franchisee"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDiner, RoleFranchisee, RoleAdmin:
		return true
	}
	return false
}

// RoleAssignment mirrors a row of the `userRole` table.  ObjectID is only
// set for franchisee assignments and names the franchise the user runs.
type RoleAssignment struct {
	Role     Role   `json:"role"`
	ObjectID uint64 `json:"objectId,omitempty"`
}

// User represents an account together with its role assignments.
//
// Fields:
//
//	ID       – users.id, assigned by the database.
//	Name     – display name.
//	Email    – unique login address.
//	Password – bcrypt hash; never serialized.
//	Roles    – role assignments loaded from userRole.
type User struct {
	ID       uint64           `json:"id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"-"`
	Roles    []RoleAssignment `json:"roles"`
}

// HasRole reports whether the user holds role, ignoring any object scope.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// AdministersFranchise reports whether the user holds a franchisee
// assignment scoped to franchiseID.
func (u User) AdministersFranchise(franchiseID uint64) bool {
	for _, r := range u.Roles {
		if r.Role == RoleFranchisee && r.ObjectID == franchiseID {
			return true
		}
	}
	return false
}

// Public returns a copy of the user without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}
