package users

import "time"

// User represents a user account for management. The password hash lives
// only in the auth module and never crosses this boundary.
type User struct {
	ID          string
	Email       string
	Role        string
	Permissions []string
	FirstName   string
	LastName    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
