package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
)

// GetDueReminders returns reminders that are active, unsent, and
// scheduled at or before now. Read-only: repeated calls return the same
// set until a reminder is marked sent.
func (uc *UseCases) GetDueReminders(ctx context.Context) ([]*model.Reminder, error) {
	reminders, err := uc.repo.Reminder().ListDue(ctx, time.Now().UTC())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list due reminders")
	}
	return reminders, nil
}

// MarkReminderSent flips the reminder to sent. Marking twice is a
// no-op. The boolean reports whether the reminder existed.
func (uc *UseCases) MarkReminderSent(ctx context.Context, id types.ReminderID) (bool, error) {
	if err := uc.repo.Reminder().MarkSent(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to mark reminder sent", goerr.V(ReminderIDKey, id))
	}
	return true, nil
}
