package interfaces

import (
	"context"
	"time"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
)

// Repository defines the interface for data persistence. All backends
// (firestore, sqlite, memory) satisfy it identically; adapters share no
// state and own their record store and vector index.
type Repository interface {
	Idea() IdeaRepository
	Reminder() ReminderRepository

	// Stats reports record count and index footprint, best-effort
	Stats(ctx context.Context) (*model.Stats, error)

	Close() error
}

// IdeaRepository persists ideas and answers similarity queries over
// their stored vectors. The caller supplies embeddings; the repository
// never talks to the embedding provider.
type IdeaRepository interface {
	Create(ctx context.Context, idea *model.Idea) (*model.Idea, error)
	Get(ctx context.Context, id types.IdeaID) (*model.Idea, error)

	// Update replaces the stored row with the given idea, embedding
	// included. The caller is responsible for re-embedding when the
	// text changed.
	Update(ctx context.Context, idea *model.Idea) (*model.Idea, error)

	// Delete removes the idea, its index entry, and all its reminders
	Delete(ctx context.Context, id types.IdeaID) error

	// List applies structured filtering only, ordered by CreatedAt
	// descending, capped at limit
	List(ctx context.Context, filter *model.IdeaFilter, limit int) ([]*model.Idea, error)

	// FindSimilar returns up to limit hydrated matches ranked by cosine
	// similarity, highest first. Records excluded by the filter are
	// never returned.
	FindSimilar(ctx context.Context, embedding []float32, limit int, filter *model.IdeaFilter) ([]*model.IdeaMatch, error)
}

// ReminderRepository persists reminders owned by ideas.
type ReminderRepository interface {
	Get(ctx context.Context, id types.ReminderID) (*model.Reminder, error)
	ListByIdeaID(ctx context.Context, ideaID types.IdeaID) ([]*model.Reminder, error)

	// ReplaceForIdea swaps the full reminder set of the idea
	// (delete-then-insert, never merge)
	ReplaceForIdea(ctx context.Context, ideaID types.IdeaID, reminders []*model.Reminder) error

	// ListDue returns reminders with IsActive, not IsSent, and
	// ScheduledFor at or before now. Read-only and repeat-safe.
	ListDue(ctx context.Context, now time.Time) ([]*model.Reminder, error)

	// MarkSent sets IsSent. Marking an already-sent reminder is a
	// no-op, not an error.
	MarkSent(ctx context.Context, id types.ReminderID) error
}
