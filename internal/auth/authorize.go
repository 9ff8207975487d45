package auth

import (
	"fmt"

	"github.com/iliyamo/pizza-service/internal/model"
)

// Requirement is a condition a request's user must satisfy.
type Requirement interface {
	satisfiedBy(u *model.User) bool
	fmt.Stringer
}

type anyAuthenticated struct{}

func (anyAuthenticated) satisfiedBy(u *model.User) bool { return u != nil }
func (anyAuthenticated) String() string                 { return "authenticated" }

type hasRole struct{ role model.Role }

func (r hasRole) satisfiedBy(u *model.User) bool { return u != nil && u.HasRole(r.role) }
func (r hasRole) String() string                 { return "role:" + string(r.role) }

type isSelfOrRole struct {
	userID uint64
	role   model.Role
}

func (r isSelfOrRole) satisfiedBy(u *model.User) bool {
	return u != nil && (u.ID == r.userID || u.HasRole(r.role))
}

func (r isSelfOrRole) String() string {
	return fmt.Sprintf("self:%d|role:%s", r.userID, r.role)
}

type isFranchiseAdminOrRole struct {
	franchiseID uint64
	role        model.Role
}

func (r isFranchiseAdminOrRole) satisfiedBy(u *model.User) bool {
	return u != nil && (u.AdministersFranchise(r.franchiseID) || u.HasRole(r.role))
}

func (r isFranchiseAdminOrRole) String() string {
	return fmt.Sprintf("franchise:%d|role:%s", r.franchiseID, r.role)
}

// AnyAuthenticated is satisfied by any non-nil user.
func AnyAuthenticated() Requirement { return anyAuthenticated{} }

// HasRole is satisfied when the user holds role.
func HasRole(role model.Role) Requirement { return hasRole{role: role} }

// IsSelfOrRole is satisfied when the user is userID or holds role.
func IsSelfOrRole(userID uint64, role model.Role) Requirement {
	return isSelfOrRole{userID: userID, role: role}
}

// IsFranchiseAdminOrRole is satisfied when the user administers the
// franchise or holds role.
func IsFranchiseAdminOrRole(franchiseID uint64, role model.Role) Requirement {
	return isFranchiseAdminOrRole{franchiseID: franchiseID, role: role}
}

// Authorize returns nil when u satisfies req and ErrForbidden otherwise.
// It has no side effects.
func Authorize(u *model.User, req Requirement) error {
	if req.satisfiedBy(u) {
		return nil
	}
	return fmt.Errorf("%w: requires %s", ErrForbidden, req)
}
