package messages

import "time"

// Message statuses. Responded is the terminal state that stamps the
// response timestamp.
const (
	StatusNew       = "new"
	StatusRead      = "read"
	StatusResponded = "responded"
	StatusArchived  = "archived"
)

// StatusAll in a list query means no status constraint.
const StatusAll = "all"

// Message is a contact-form submission managed from the admin inbox.
type Message struct {
	ID          string
	Name        string
	Email       string
	Subject     string
	Body        string
	Status      string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RespondedAt *time.Time
}

// ValidStatus reports whether status belongs to the closed status set.
func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusRead, StatusResponded, StatusArchived:
		return true
	}
	return false
}
