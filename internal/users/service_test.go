package users_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/platform/httpx"
	"github.com/foliohq/folio/internal/shared"
	"github.com/foliohq/folio/internal/users"
	_ "github.com/foliohq/folio/testing"
)

type memoryUsersRepo struct {
	items map[string]users.User
}

func newMemoryUsersRepo() *memoryUsersRepo {
	return &memoryUsersRepo{items: make(map[string]users.User)}
}

func (r *memoryUsersRepo) List(ctx context.Context, q users.ListQuery) ([]users.User, int, error) {
	var matched []users.User
	for _, u := range r.items {
		if q.Role != "" && q.Role != "all" && u.Role != q.Role {
			continue
		}
		if q.Search != "" && !matchesUser(u, q.Search) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		if q.SortDir == "asc" {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	page, limit := shared.Normalize(q.Page, q.Limit)
	offset := shared.Offset(page, limit)
	if offset >= total {
		return []users.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matchesUser(u users.User, needle string) bool {
	needle = strings.ToLower(needle)
	for _, field := range []string{u.Email, u.FirstName, u.LastName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (r *memoryUsersRepo) Get(ctx context.Context, id string) (*users.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsersRepo) Update(ctx context.Context, id string, updates map[string]any) (*users.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	if v, ok := updates["role"]; ok {
		u.Role = v.(string)
	}
	if v, ok := updates["permissions"]; ok {
		u.Permissions = v.([]string)
	}
	if v, ok := updates["first_name"]; ok {
		u.FirstName = v.(string)
	}
	if v, ok := updates["last_name"]; ok {
		u.LastName = v.(string)
	}
	if v, ok := updates["is_active"]; ok {
		u.IsActive = v.(bool)
	}
	u.UpdatedAt = time.Now().UTC()
	r.items[id] = u
	return &u, nil
}

func (r *memoryUsersRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func seedUser(repo *memoryUsersRepo, id, email, role string) {
	repo.items[id] = users.User{
		ID:          id,
		Email:       email,
		Role:        role,
		Permissions: auth.DefaultPermissions(role),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestSelfDeleteRejectedBeforeStore(t *testing.T) {
	repo := newMemoryUsersRepo()
	seedUser(repo, "u1", "owner@folio.dev", auth.RoleAdmin)
	seedUser(repo, "u2", "editor@folio.dev", auth.RoleEditor)
	svc := users.NewService(repo)

	err := svc.Delete(context.Background(), "u1", "u1")
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Len(t, repo.items, 2)
}

func TestDeleteOtherUser(t *testing.T) {
	repo := newMemoryUsersRepo()
	seedUser(repo, "u1", "owner@folio.dev", auth.RoleAdmin)
	seedUser(repo, "u2", "editor@folio.dev", auth.RoleEditor)
	svc := users.NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), "u1", "u2"))
	require.Len(t, repo.items, 1)
}

func TestDeleteUnknownUser(t *testing.T) {
	repo := newMemoryUsersRepo()
	seedUser(repo, "u1", "owner@folio.dev", auth.RoleAdmin)
	svc := users.NewService(repo)

	err := svc.Delete(context.Background(), "u1", "ghost")
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Len(t, repo.items, 1)
}

func TestUpdatePermissionsOverrideRoleDefaults(t *testing.T) {
	repo := newMemoryUsersRepo()
	seedUser(repo, "u2", "editor@folio.dev", auth.RoleEditor)
	svc := users.NewService(repo)

	perms := []string{auth.PermRead, auth.PermWrite, auth.PermPublish}
	updated, err := svc.Update(context.Background(), "u2", users.UpdateInput{Permissions: &perms})
	require.NoError(t, err)
	require.Equal(t, perms, updated.Permissions)
	// Role untouched by a permissions-only update.
	require.Equal(t, auth.RoleEditor, updated.Role)
}

func TestUpdateRejectsUnknownPermission(t *testing.T) {
	repo := newMemoryUsersRepo()
	seedUser(repo, "u2", "editor@folio.dev", auth.RoleEditor)
	svc := users.NewService(repo)

	perms := []string{"rule_the_world"}
	_, err := svc.Update(context.Background(), "u2", users.UpdateInput{Permissions: &perms})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRejectsUnknownRole(t *testing.T) {
	repo := newMemoryUsersRepo()
	seedUser(repo, "u2", "editor@folio.dev", auth.RoleEditor)
	svc := users.NewService(repo)

	role := "superuser"
	_, err := svc.Update(context.Background(), "u2", users.UpdateInput{Role: &role})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListFiltersByRole(t *testing.T) {
	repo := newMemoryUsersRepo()
	seedUser(repo, "u1", "owner@folio.dev", auth.RoleAdmin)
	seedUser(repo, "u2", "editor@folio.dev", auth.RoleEditor)
	seedUser(repo, "u3", "viewer@folio.dev", auth.RoleViewer)
	svc := users.NewService(repo)

	items, pagination, err := svc.List(context.Background(), users.ListQuery{Role: auth.RoleEditor})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "editor@folio.dev", items[0].Email)
	require.Equal(t, 1, pagination.Total)
}

func TestListRejectsUnknownRoleFilter(t *testing.T) {
	svc := users.NewService(newMemoryUsersRepo())
	_, _, err := svc.List(context.Background(), users.ListQuery{Role: "superuser"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListRejectsUnknownSortDir(t *testing.T) {
	svc := users.NewService(newMemoryUsersRepo())
	_, _, err := svc.List(context.Background(), users.ListQuery{SortDir: "sideways"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
