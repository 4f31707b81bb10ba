package users

import (
	"context"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/platform/httpx"
	"github.com/foliohq/folio/internal/shared"
)

// Service handles user administration logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of users with pagination metadata.
func (s *Service) List(ctx context.Context, q ListQuery) ([]User, shared.Pagination, error) {
	if q.Role != "" && q.Role != "all" && !auth.ValidRole(q.Role) {
		return nil, shared.Pagination{}, httpx.ErrValidation
	}
	if q.SortDir != "" && q.SortDir != "asc" && q.SortDir != "desc" {
		return nil, shared.Pagination{}, httpx.ErrValidation
	}
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	page, limit := shared.Normalize(q.Page, q.Limit)
	return items, shared.NewPagination(page, limit, total), nil
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, httpx.ErrValidation
	}
	return s.repo.Get(ctx, id)
}

// UpdateInput carries admin-mutable account fields; nil means untouched.
// Permissions set here override the role defaults explicitly and are the
// only way permissions change after registration.
type UpdateInput struct {
	Role        *string
	Permissions *[]string
	FirstName   *string
	LastName    *string
	IsActive    *bool
}

// Update applies only the supplied fields to the account.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*User, error) {
	if id == "" {
		return nil, httpx.ErrValidation
	}
	updates := make(map[string]any)
	if input.Role != nil {
		if !auth.ValidRole(*input.Role) {
			return nil, httpx.ErrValidation
		}
		updates["role"] = *input.Role
	}
	if input.Permissions != nil {
		if !auth.ValidPermissions(*input.Permissions) {
			return nil, httpx.ErrValidation
		}
		updates["permissions"] = *input.Permissions
	}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	return s.repo.Update(ctx, id, updates)
}

// Delete removes an account. Self-deletion is rejected before the store is
// touched.
func (s *Service) Delete(ctx context.Context, requesterID, id string) error {
	if id == "" {
		return httpx.ErrValidation
	}
	if requesterID != "" && requesterID == id {
		return httpx.ErrValidation
	}
	return s.repo.Delete(ctx, id)
}
