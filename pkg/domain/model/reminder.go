package model

import (
	"time"

	"github.com/ideabank/ideabank/pkg/domain/types"
)

// Reminder is a scheduled notification tied to one idea.
// Its lifetime is coupled to the idea: deleting the idea deletes it.
type Reminder struct {
	ID           types.ReminderID   `json:"id"`
	IdeaID       types.IdeaID       `json:"ideaId"`
	Type         types.ReminderType `json:"type"`
	ScheduledFor time.Time          `json:"scheduledFor"`
	Message      string             `json:"message,omitempty"`
	IsActive     bool               `json:"isActive"`
	IsSent       bool               `json:"isSent"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// IsDue reports whether the reminder should fire at the given time.
// Sent and inactive reminders are never due.
func (x *Reminder) IsDue(now time.Time) bool {
	return x.IsActive && !x.IsSent && !x.ScheduledFor.After(now)
}

// Clone returns a copy of the reminder
func (x *Reminder) Clone() *Reminder {
	copied := *x
	return &copied
}
