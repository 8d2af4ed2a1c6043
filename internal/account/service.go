package account

import (
	"context"

	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/types"
)

// Store is the persistence interface the service depends on.
type Store interface {
	FindByID(ctx context.Context, id types.ID) (*Account, error)
	List(ctx context.Context, filter ListFilter) ([]Account, int, error)
	UpdateRole(ctx context.Context, id types.ID, role auth.Role, department string) error
	Delete(ctx context.Context, id types.ID) error
}

// ListResult is a paginated account listing
type ListResult struct {
	Users       []Account `json:"users"`
	Total       int       `json:"total"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// Service implements account management operations
type Service struct {
	store Store
}

// NewService creates an account service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns a page of accounts. Admin and superadmin only.
func (s *Service) List(ctx context.Context, actor auth.Actor, filter ListFilter) (*ListResult, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required", string(actor.Role))
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	accounts, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Users:       accounts,
		Total:       total,
		TotalPages:  types.Pages(total, filter.Limit),
		CurrentPage: filter.Page,
	}, nil
}

// UpdateRole changes another account's role. Admins cannot change their
// own role; promoting to staff requires a department.
func (s *Service) UpdateRole(ctx context.Context, actor auth.Actor, id types.ID, role auth.Role, department string) (*Account, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required", string(actor.Role))
	}
	if !auth.ValidRole(role) {
		return nil, errors.Validation("invalid role", map[string]string{"role": string(role)})
	}
	if id == actor.ID {
		return nil, errors.BadRequest("cannot change your own role")
	}
	if role == auth.RoleStaff && department == "" {
		return nil, errors.Validation("staff accounts require a department", map[string]string{"department": "required"})
	}
	if role != auth.RoleStaff {
		department = ""
	}

	target, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateRole(ctx, id, role, department); err != nil {
		return nil, err
	}

	target.Role = role
	target.Department = department
	return target, nil
}

// Delete removes another account. Self-deletion is refused.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id types.ID) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("admin access required", string(actor.Role))
	}
	if id == actor.ID {
		return errors.BadRequest("cannot delete your own account")
	}

	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

// Resolve returns the embeddable reference for an account ID, or nil
// when the account does not exist.
func (s *Service) Resolve(ctx context.Context, id types.ID) (*Account, error) {
	return s.store.FindByID(ctx, id)
}
