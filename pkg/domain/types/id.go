package types

import "github.com/google/uuid"

// IdeaID is a UUID-based identifier for an Idea
type IdeaID string

// NewIdeaID generates a new UUID v4 IdeaID
func NewIdeaID() IdeaID {
	return IdeaID(uuid.New().String())
}

// String returns the string representation of the IdeaID
func (x IdeaID) String() string {
	return string(x)
}

// ReminderID is a UUID-based identifier for a Reminder
type ReminderID string

// NewReminderID generates a new UUID v4 ReminderID
func NewReminderID() ReminderID {
	return ReminderID(uuid.New().String())
}

// String returns the string representation of the ReminderID
func (x ReminderID) String() string {
	return string(x)
}
