package model

import (
	"time"

	"github.com/ideabank/ideabank/pkg/domain/types"
)

// IdeaFilter holds structured predicates for listing and search.
// Zero-valued fields are not applied.
type IdeaFilter struct {
	UserID        string         `json:"userId,omitempty"`
	ChatID        string         `json:"chatId,omitempty"`
	Category      types.Category `json:"category,omitempty"`
	Priority      types.Priority `json:"priority,omitempty"`
	Status        types.Status   `json:"status,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	CreatedAfter  time.Time      `json:"createdAfter,omitempty"`
	CreatedBefore time.Time      `json:"createdBefore,omitempty"`
}

// Matches reports whether the idea satisfies every supplied predicate.
// A nil filter matches everything.
func (f *IdeaFilter) Matches(idea *Idea) bool {
	if f == nil {
		return true
	}
	if f.UserID != "" && idea.UserID != f.UserID {
		return false
	}
	if f.ChatID != "" && idea.ChatID != f.ChatID {
		return false
	}
	if f.Category != "" && idea.Category != f.Category {
		return false
	}
	if f.Priority != "" && idea.Priority != f.Priority {
		return false
	}
	if f.Status != "" && idea.Status != f.Status {
		return false
	}
	if len(f.Tags) > 0 && !idea.HasAnyTag(f.Tags) {
		return false
	}
	if !f.CreatedAfter.IsZero() && idea.CreatedAt.Before(f.CreatedAfter) {
		return false
	}
	if !f.CreatedBefore.IsZero() && idea.CreatedAt.After(f.CreatedBefore) {
		return false
	}
	return true
}

// Validate checks that supplied enum predicates are valid values
func (f *IdeaFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Category != "" && !f.Category.IsValid() {
		return newInvalidFieldError("category", f.Category.String())
	}
	if f.Priority != "" && !f.Priority.IsValid() {
		return newInvalidFieldError("priority", f.Priority.String())
	}
	if f.Status != "" && !f.Status.IsValid() {
		return newInvalidFieldError("status", f.Status.String())
	}
	return nil
}
