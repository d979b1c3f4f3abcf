package model

import (
	"time"

	"github.com/ideabank/ideabank/pkg/domain/types"
)

// Idea represents a short textual record with a semantic embedding.
// The embedding is always derived from the current Title and Content;
// it is persisted by the backends but never serialized to callers.
type Idea struct {
	ID        types.IdeaID   `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Category  types.Category `json:"category"`
	Priority  types.Priority `json:"priority"`
	Status    types.Status   `json:"status"`
	Tags      []string       `json:"tags,omitempty"`
	UserID    string         `json:"userId"`
	ChatID    string         `json:"chatId,omitempty"`
	Embedding []float32      `json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Reminders []*Reminder    `json:"reminders,omitempty"`
}

// EmbeddingText returns the canonical embedding input for the idea
func (x *Idea) EmbeddingText() string {
	return x.Title + " " + x.Content
}

// HasAnyTag reports whether the idea's tag set overlaps the given set.
// Matching is exact per tag, never substring.
func (x *Idea) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	own := make(map[string]struct{}, len(x.Tags))
	for _, t := range x.Tags {
		own[t] = struct{}{}
	}
	for _, t := range tags {
		if _, ok := own[t]; ok {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the idea
func (x *Idea) Clone() *Idea {
	copied := *x
	if x.Tags != nil {
		copied.Tags = make([]string, len(x.Tags))
		copy(copied.Tags, x.Tags)
	}
	if x.Embedding != nil {
		copied.Embedding = make([]float32, len(x.Embedding))
		copy(copied.Embedding, x.Embedding)
	}
	if x.Reminders != nil {
		copied.Reminders = make([]*Reminder, len(x.Reminders))
		for i, r := range x.Reminders {
			copied.Reminders[i] = r.Clone()
		}
	}
	return &copied
}
