// Package scheduler polls for due reminders and dispatches them to a
// notifier, marking each one sent after successful delivery.
package scheduler

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/ideabank/ideabank/pkg/utils/async"
	"github.com/ideabank/ideabank/pkg/utils/errutil"
	"github.com/ideabank/ideabank/pkg/utils/logging"
)

// ReminderSource is the slice of the use case layer the scheduler
// needs. *usecase.UseCases satisfies it.
type ReminderSource interface {
	GetDueReminders(ctx context.Context) ([]*model.Reminder, error)
	MarkReminderSent(ctx context.Context, id types.ReminderID) (bool, error)
	GetIdea(ctx context.Context, id types.IdeaID) (*model.Idea, error)
}

// Notifier delivers a due reminder. The idea is the owning record, nil
// when it was deleted between scheduling and delivery.
type Notifier interface {
	Notify(ctx context.Context, reminder *model.Reminder, idea *model.Idea) error
}

// LogNotifier writes due reminders to the log. It is the default
// delivery channel when no external notifier is configured.
type LogNotifier struct{}

func (n *LogNotifier) Notify(ctx context.Context, reminder *model.Reminder, idea *model.Idea) error {
	attrs := []any{
		"reminderID", reminder.ID,
		"ideaID", reminder.IdeaID,
		"type", reminder.Type,
		"scheduledFor", reminder.ScheduledFor,
		"message", reminder.Message,
	}
	if idea != nil {
		attrs = append(attrs, "title", idea.Title)
	}
	logging.From(ctx).Info("reminder due", attrs...)
	return nil
}

// Scheduler manages the background reminder dispatch loop
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type Scheduler struct {
	source   ReminderSource
	notifier Notifier
	interval time.Duration
	started  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a scheduler polling at the given interval
func New(source ReminderSource, notifier Notifier, interval time.Duration) *Scheduler {
	if notifier == nil {
		notifier = &LogNotifier{}
	}
	return &Scheduler{
		source:   source,
		notifier: notifier,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background dispatch loop. Does not block.
func (s *Scheduler) Start(ctx context.Context) error {
	logging.Default().Info("reminder scheduler starting",
		"interval", s.interval.String())

	s.started = true
	async.Dispatch(ctx, func(ctx context.Context) error {
		s.run(ctx)
		return nil
	})

	return nil
}

// Stop signals the scheduler to stop and waits for completion.
// A no-op when Start was never called, so there is no loop to wait on.
func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	logging.Default().Info("reminder scheduler stopping")
	close(s.stopCh)
	<-s.doneCh
	logging.Default().Info("reminder scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Dispatch(ctx); err != nil {
				// log and continue, the next tick retries
				_ = errutil.Handle(ctx, err, "reminder dispatch failed (will retry next interval)")
			}

		case <-s.stopCh:
			logging.Default().Info("reminder scheduler received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("reminder scheduler context cancelled")
			return
		}
	}
}

// Dispatch performs one delivery cycle: list due reminders, notify each
// one, and mark it sent only after the notifier succeeds. A failed
// delivery stays due and is retried on the next cycle.
func (s *Scheduler) Dispatch(ctx context.Context) error {
	due, err := s.source.GetDueReminders(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list due reminders")
	}
	if len(due) == 0 {
		return nil
	}

	logger := logging.From(ctx)
	for _, reminder := range due {
		idea, err := s.source.GetIdea(ctx, reminder.IdeaID)
		if err != nil {
			logger.Error("failed to load idea for reminder",
				"reminderID", reminder.ID, "ideaID", reminder.IdeaID, "error", err.Error())
			continue
		}

		if err := s.notifier.Notify(ctx, reminder, idea); err != nil {
			logger.Error("failed to deliver reminder",
				"reminderID", reminder.ID, "error", err.Error())
			continue
		}

		if _, err := s.source.MarkReminderSent(ctx, reminder.ID); err != nil {
			logger.Error("failed to mark reminder sent",
				"reminderID", reminder.ID, "error", err.Error())
		}
	}

	return nil
}
