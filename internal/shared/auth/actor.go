// Package auth provides authentication and authorization types.
package auth

import (
	"github.com/civicdesk/platform/internal/shared/types"
)

// Role represents an account role in the system.
type Role string

const (
	RoleCitizen    Role = "citizen"    // Files and tracks own complaints
	RoleStaff      Role = "staff"      // Works complaints within one department
	RoleAdmin      Role = "admin"      // Full complaint and account management
	RoleSuperAdmin Role = "superadmin" // Admin plus role administration
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCitizen, RoleStaff, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller, passed explicitly into every service
// call. Department is set only for staff accounts and binds their
// visibility to exactly one complaint category.
type Actor struct {
	ID         types.ID `json:"id"`
	Name       string   `json:"name"`
	Role       Role     `json:"role"`
	Department string   `json:"department,omitempty"`
}

// IsAdmin reports whether the actor holds admin or superadmin privileges.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// IsStaff reports whether the actor is a department staff account.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}
