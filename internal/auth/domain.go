package auth

import "time"

// Roles form a closed set. A role only matters at the moments it is
// expanded into permissions; authorization itself checks permissions.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Capability strings gating specific actions.
const (
	PermRead        = "read"
	PermWrite       = "write"
	PermDelete      = "delete"
	PermPublish     = "publish"
	PermManageUsers = "manage_users"
)

// AllPermissions lists every known capability.
var AllPermissions = []string{PermRead, PermWrite, PermDelete, PermPublish, PermManageUsers}

// Identity describes an authenticated principal reconstructed from a token
// or loaded from the store.
type Identity struct {
	ID          string
	Email       string
	Role        string
	Permissions []string
	FirstName   string
	LastName    string
}

// User is the persisted account record used by authentication flows.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	Permissions  []string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity derives the principal view of the account.
func (u *User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
	}
}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// DefaultPermissions expands a role into its registration-time permission
// set: admins get every capability, everyone else gets read.
func DefaultPermissions(role string) []string {
	if role == RoleAdmin {
		perms := make([]string, len(AllPermissions))
		copy(perms, AllPermissions)
		return perms
	}
	return []string{PermRead}
}

// HasPermission reports whether the capability is a member of the
// identity's permission set. Role is never consulted here.
func HasPermission(id Identity, capability string) bool {
	for _, p := range id.Permissions {
		if p == capability {
			return true
		}
	}
	return false
}

// ValidPermissions reports whether every entry is a known capability.
func ValidPermissions(perms []string) bool {
	known := make(map[string]struct{}, len(AllPermissions))
	for _, p := range AllPermissions {
		known[p] = struct{}{}
	}
	for _, p := range perms {
		if _, ok := known[p]; !ok {
			return false
		}
	}
	return true
}
