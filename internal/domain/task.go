package domain

import "time"

// Task statuses. Anything else is rejected on write and ignored as a filter.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// KnownStatus reports whether s is one of the recognized task statuses.
func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is the domain entity for a task. Owner is always the authenticated
// user; it never comes from a request payload.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	DueDate     time.Time
	Status      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
