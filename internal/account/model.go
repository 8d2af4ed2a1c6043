// Package account manages platform accounts: citizens, department staff,
// and administrators. The complaint service consults it to resolve
// ownership and staff assignment references.
package account

import (
	"time"

	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/types"
)

// Account represents a platform account. Department is set only for
// staff and names the single complaint category the account may see.
type Account struct {
	ID           types.ID  `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	Department   string    `json:"department,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Ref is the subset of account fields embedded into complaint responses.
type Ref struct {
	ID    types.ID  `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role,omitempty"`
}

// Ref returns the embeddable reference for this account.
func (a *Account) Ref() Ref {
	return Ref{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

// New creates an account with validation.
func New(name, email, passwordHash string, role auth.Role, department string) (*Account, error) {
	details := map[string]string{}
	if name == "" {
		details["name"] = "name is required"
	}
	if email == "" {
		details["email"] = "email is required"
	}
	if !auth.ValidRole(role) {
		details["role"] = "unknown role"
	}
	if role == auth.RoleStaff && department == "" {
		details["department"] = "staff accounts require a department"
	}
	if len(details) > 0 {
		return nil, errors.Validation("invalid account", details)
	}

	return &Account{
		ID:           types.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Department:   department,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
