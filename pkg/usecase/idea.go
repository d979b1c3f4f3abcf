package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/ideabank/ideabank/pkg/utils/logging"
)

// CreateIdea validates the input, embeds the merged title and content,
// and stores the idea with its reminders. The embedding call happens
// before any write: when the provider fails, nothing is persisted.
func (uc *UseCases) CreateIdea(ctx context.Context, input *model.CreateIdeaInput) (*model.Idea, error) {
	if input == nil {
		return nil, goerr.New("create input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	idea := &model.Idea{
		Title:    input.Title,
		Content:  input.Content,
		Category: input.Category.Normalize(),
		Priority: input.Priority.Normalize(),
		Status:   types.Status("").Normalize(),
		Tags:     input.Tags,
		UserID:   input.UserID,
		ChatID:   input.ChatID,
	}

	embedding, err := uc.embedder.Embed(ctx, idea.EmbeddingText())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed idea")
	}
	idea.Embedding = embedding.Vector

	created, err := uc.repo.Idea().Create(ctx, idea)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create idea")
	}

	if len(input.Reminders) > 0 {
		reminders := make([]*model.Reminder, 0, len(input.Reminders))
		for _, r := range input.Reminders {
			reminders = append(reminders, r.ToReminder(created.ID))
		}
		if err := uc.repo.Reminder().ReplaceForIdea(ctx, created.ID, reminders); err != nil {
			return nil, goerr.Wrap(err, "failed to store reminders", goerr.V(IdeaIDKey, created.ID))
		}
	}

	if err := uc.hydrateReminders(ctx, created); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("idea created",
		"id", created.ID,
		"userID", created.UserID,
		"tokens", embedding.Tokens,
	)

	return created, nil
}

// GetIdea returns the idea with its reminders, or nil when it does not
// exist.
func (uc *UseCases) GetIdea(ctx context.Context, id types.IdeaID) (*model.Idea, error) {
	idea, err := uc.repo.Idea().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get idea", goerr.V(IdeaIDKey, id))
	}

	if err := uc.hydrateReminders(ctx, idea); err != nil {
		return nil, err
	}

	return idea, nil
}

// UpdateIdea applies partial-update semantics: supplied fields
// overwrite, absent fields are preserved. When title or content
// changes, the idea is re-embedded from the merged text before the
// write. A non-nil Reminders replaces the full reminder set.
// Returns nil when the idea does not exist.
func (uc *UseCases) UpdateIdea(ctx context.Context, input *model.UpdateIdeaInput) (*model.Idea, error) {
	if input == nil {
		return nil, goerr.New("update input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.Idea().Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get idea", goerr.V(IdeaIDKey, input.ID))
	}

	merged := existing.Clone()
	if input.Title != nil {
		merged.Title = *input.Title
	}
	if input.Content != nil {
		merged.Content = *input.Content
	}
	if input.Category != nil {
		merged.Category = input.Category.Normalize()
	}
	if input.Priority != nil {
		merged.Priority = input.Priority.Normalize()
	}
	if input.Status != nil {
		merged.Status = input.Status.Normalize()
	}
	if input.Tags != nil {
		merged.Tags = *input.Tags
	}

	if input.TouchesText() {
		embedding, err := uc.embedder.Embed(ctx, merged.EmbeddingText())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to re-embed idea", goerr.V(IdeaIDKey, input.ID))
		}
		merged.Embedding = embedding.Vector
	}

	updated, err := uc.repo.Idea().Update(ctx, merged)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to update idea", goerr.V(IdeaIDKey, input.ID))
	}

	if input.Reminders != nil {
		reminders := make([]*model.Reminder, 0, len(*input.Reminders))
		for _, r := range *input.Reminders {
			reminders = append(reminders, r.ToReminder(updated.ID))
		}
		if err := uc.repo.Reminder().ReplaceForIdea(ctx, updated.ID, reminders); err != nil {
			return nil, goerr.Wrap(err, "failed to replace reminders", goerr.V(IdeaIDKey, updated.ID))
		}
	}

	if err := uc.hydrateReminders(ctx, updated); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteIdea removes the idea, its index entry, and all its reminders.
// The boolean reports whether a record existed.
func (uc *UseCases) DeleteIdea(ctx context.Context, id types.IdeaID) (bool, error) {
	if err := uc.repo.Idea().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to delete idea", goerr.V(IdeaIDKey, id))
	}

	logging.From(ctx).Info("idea deleted", "id", id)

	return true, nil
}

// ListIdeas returns ideas matching the structured filter, newest first.
// Reminders are not hydrated here; use GetIdea for the full record.
func (uc *UseCases) ListIdeas(ctx context.Context, filter *model.IdeaFilter, limit int) ([]*model.Idea, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	ideas, err := uc.repo.Idea().List(ctx, filter, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list ideas")
	}

	return ideas, nil
}

// GetStats reports record count and index footprint
func (uc *UseCases) GetStats(ctx context.Context) (*model.Stats, error) {
	stats, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get stats")
	}
	return stats, nil
}

func (uc *UseCases) hydrateReminders(ctx context.Context, idea *model.Idea) error {
	reminders, err := uc.repo.Reminder().ListByIdeaID(ctx, idea.ID)
	if err != nil {
		return goerr.Wrap(err, "failed to load reminders", goerr.V(IdeaIDKey, idea.ID))
	}
	idea.Reminders = reminders
	return nil
}
