package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type reminderRepository struct {
	mu        sync.RWMutex
	reminders map[types.ReminderID]*model.Reminder
}

func newReminderRepository() *reminderRepository {
	return &reminderRepository{
		reminders: make(map[types.ReminderID]*model.Reminder),
	}
}

func (r *reminderRepository) Get(ctx context.Context, id types.ReminderID) (*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reminder, exists := r.reminders[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "reminder not found", goerr.V("id", id))
	}
	return reminder.Clone(), nil
}

func (r *reminderRepository) ListByIdeaID(ctx context.Context, ideaID types.IdeaID) ([]*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Reminder, 0)
	for _, reminder := range r.reminders {
		if reminder.IdeaID == ideaID {
			result = append(result, reminder.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledFor.Before(result[j].ScheduledFor)
	})

	return result, nil
}

func (r *reminderRepository) ReplaceForIdea(ctx context.Context, ideaID types.IdeaID, reminders []*model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, reminder := range r.reminders {
		if reminder.IdeaID == ideaID {
			delete(r.reminders, id)
		}
	}

	now := time.Now().UTC()
	for _, reminder := range reminders {
		stored := reminder.Clone()
		if stored.ID == "" {
			stored.ID = types.NewReminderID()
		}
		stored.IdeaID = ideaID
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.reminders[stored.ID] = stored
	}

	return nil
}

func (r *reminderRepository) ListDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Reminder, 0)
	for _, reminder := range r.reminders {
		if reminder.IsDue(now) {
			result = append(result, reminder.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledFor.Before(result[j].ScheduledFor)
	})

	return result, nil
}

func (r *reminderRepository) MarkSent(ctx context.Context, id types.ReminderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, exists := r.reminders[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "reminder not found", goerr.V("id", id))
	}
	if reminder.IsSent {
		// already sent: idempotent no-op
		return nil
	}

	reminder.IsSent = true
	reminder.UpdatedAt = time.Now().UTC()
	return nil
}

// deleteByIdeaID removes all reminders owned by the idea. The caller
// holds no reminder lock.
func (r *reminderRepository) deleteByIdeaID(ideaID types.IdeaID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, reminder := range r.reminders {
		if reminder.IdeaID == ideaID {
			delete(r.reminders, id)
		}
	}
}
