package types

import "fmt"

// Status represents the lifecycle state of an idea.
// Transitions are caller-driven; the repository does not restrict them.
type Status string

const (
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses returns all valid statuses
func AllStatuses() []Status {
	return []Status{
		StatusActive,
		StatusInProgress,
		StatusCompleted,
		StatusArchived,
		StatusCancelled,
	}
}

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive,
		StatusInProgress,
		StatusCompleted,
		StatusArchived,
		StatusCancelled:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as StatusActive
func (s Status) Normalize() Status {
	if s == "" {
		return StatusActive
	}
	return s
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a string into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %s", s)
	}
	return status, nil
}
