package model

import (
	"time"

	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func newInvalidFieldError(field, value string) error {
	return goerr.New("invalid field value", goerr.V("field", field), goerr.V("value", value))
}

// ReminderInput describes a reminder supplied with a create or update.
type ReminderInput struct {
	Type         types.ReminderType `json:"type,omitempty"`
	ScheduledFor time.Time          `json:"scheduledFor"`
	Message      string             `json:"message,omitempty"`
	// IsActive defaults to true when omitted
	IsActive *bool `json:"isActive,omitempty"`
}

// Validate checks the reminder input
func (x *ReminderInput) Validate() error {
	if x.Type != "" && !x.Type.IsValid() {
		return newInvalidFieldError("reminder type", x.Type.String())
	}
	if x.ScheduledFor.IsZero() {
		return goerr.New("reminder scheduledFor is required")
	}
	return nil
}

// ToReminder materializes the input as a reminder owned by the given idea
func (x *ReminderInput) ToReminder(ideaID types.IdeaID) *Reminder {
	active := true
	if x.IsActive != nil {
		active = *x.IsActive
	}
	return &Reminder{
		ID:           types.NewReminderID(),
		IdeaID:       ideaID,
		Type:         x.Type.Normalize(),
		ScheduledFor: x.ScheduledFor,
		Message:      x.Message,
		IsActive:     active,
	}
}

// CreateIdeaInput is the explicit input for creating an idea.
type CreateIdeaInput struct {
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Category  types.Category  `json:"category,omitempty"`
	Priority  types.Priority  `json:"priority,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	UserID    string          `json:"userId"`
	ChatID    string          `json:"chatId,omitempty"`
	Reminders []ReminderInput `json:"reminders,omitempty"`
}

// Validate rejects missing required fields and invalid enum values
// before any I/O happens.
func (x *CreateIdeaInput) Validate() error {
	if x.Title == "" {
		return goerr.New("idea title is required")
	}
	if x.Content == "" {
		return goerr.New("idea content is required")
	}
	if x.UserID == "" {
		return goerr.New("idea userId is required")
	}
	if x.Category != "" && !x.Category.IsValid() {
		return newInvalidFieldError("category", x.Category.String())
	}
	if x.Priority != "" && !x.Priority.IsValid() {
		return newInvalidFieldError("priority", x.Priority.String())
	}
	for _, r := range x.Reminders {
		if err := r.Validate(); err != nil {
			return goerr.Wrap(err, "invalid reminder input")
		}
	}
	return nil
}

// UpdateIdeaInput carries partial-update semantics: nil fields are
// preserved, non-nil fields overwrite. A non-nil Reminders replaces the
// full reminder set for the idea.
type UpdateIdeaInput struct {
	ID        types.IdeaID     `json:"id"`
	Title     *string          `json:"title,omitempty"`
	Content   *string          `json:"content,omitempty"`
	Category  *types.Category  `json:"category,omitempty"`
	Priority  *types.Priority  `json:"priority,omitempty"`
	Status    *types.Status    `json:"status,omitempty"`
	Tags      *[]string        `json:"tags,omitempty"`
	Reminders *[]ReminderInput `json:"reminders,omitempty"`
}

// Validate checks supplied fields; absent fields are not validated
func (x *UpdateIdeaInput) Validate() error {
	if x.ID == "" {
		return goerr.New("idea id is required")
	}
	if x.Title != nil && *x.Title == "" {
		return goerr.New("idea title must not be empty")
	}
	if x.Content != nil && *x.Content == "" {
		return goerr.New("idea content must not be empty")
	}
	if x.Category != nil && !x.Category.IsValid() {
		return newInvalidFieldError("category", x.Category.String())
	}
	if x.Priority != nil && !x.Priority.IsValid() {
		return newInvalidFieldError("priority", x.Priority.String())
	}
	if x.Status != nil && !x.Status.IsValid() {
		return newInvalidFieldError("status", x.Status.String())
	}
	if x.Reminders != nil {
		for _, r := range *x.Reminders {
			if err := r.Validate(); err != nil {
				return goerr.Wrap(err, "invalid reminder input")
			}
		}
	}
	return nil
}

// TouchesText reports whether the update modifies the embedding input
func (x *UpdateIdeaInput) TouchesText() bool {
	return x.Title != nil || x.Content != nil
}
