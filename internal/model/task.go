package model

import "time"

// Status is the closed set of task lifecycle states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// MaxTitleLength is the longest accepted task title, in characters.
const MaxTitleLength = 255

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a raw string into a Status, rejecting anything
// outside the defined set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", &ValidationError{
			Field:  "status",
			Reason: "must be one of: pending, in_progress, completed",
		}
	}
	return s, nil
}

// Task is the single entity tracked by the service.
type Task struct {
	// ID is assigned by the store, unique, and never reused.
	ID int64 `json:"id" db:"id"`

	// Title is the required human-readable summary.
	Title string `json:"title" db:"title"`

	// Description is optional free text; empty means none.
	Description string `json:"description" db:"description"`

	// DueDate is an optional date-only deadline.
	DueDate *time.Time `json:"due_date,omitempty" db:"due_date"`

	// Status is the current lifecycle state.
	Status Status `json:"status" db:"status"`

	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is refreshed on every successful mutation and is
	// always >= CreatedAt.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewTask carries the caller-supplied fields for task creation.
// The store assigns the id and both timestamps.
type NewTask struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      Status
}
