package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
)

func testReminder(ideaID types.IdeaID, scheduledFor time.Time) *model.Reminder {
	return &model.Reminder{
		IdeaID:       ideaID,
		Type:         types.ReminderType("").Normalize(),
		ScheduledFor: scheduledFor,
		Message:      "check on this",
		IsActive:     true,
	}
}

func runReminderRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("ReplaceForIdea stores reminders ordered by schedule", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		idea := mustCreate(t, repo, testIdea("With reminders", "content", []float32{1, 0, 0}))

		later := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
		sooner := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		err := repo.Reminder().ReplaceForIdea(ctx, idea.ID, []*model.Reminder{
			testReminder(idea.ID, later),
			testReminder(idea.ID, sooner),
		})
		gt.NoError(t, err).Required()

		got, err := repo.Reminder().ListByIdeaID(ctx, idea.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(2).Required()

		gt.Bool(t, got[0].ID != "").True()
		gt.Bool(t, got[1].ID != "").True()
		gt.Bool(t, got[0].ScheduledFor.Equal(sooner)).True()
		gt.Value(t, got[0].IdeaID).Equal(idea.ID)
	})

	t.Run("ReplaceForIdea swaps the full set", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		idea := mustCreate(t, repo, testIdea("Replace target", "content", []float32{1, 0, 0}))

		first := testReminder(idea.ID, time.Now().Add(time.Hour).UTC())
		first.Message = "original"
		gt.NoError(t, repo.Reminder().ReplaceForIdea(ctx, idea.ID, []*model.Reminder{first})).Required()

		stored, err := repo.Reminder().ListByIdeaID(ctx, idea.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(1).Required()
		originalID := stored[0].ID

		second := testReminder(idea.ID, time.Now().Add(3*time.Hour).UTC())
		second.Message = "replacement"
		gt.NoError(t, repo.Reminder().ReplaceForIdea(ctx, idea.ID, []*model.Reminder{second})).Required()

		got, err := repo.Reminder().ListByIdeaID(ctx, idea.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1).Required()
		gt.Value(t, got[0].Message).Equal("replacement")

		_, err = repo.Reminder().Get(ctx, originalID)
		gt.Bool(t, errors.Is(err, interfaces.ErrRecordNotFound)).True()
	})

	t.Run("ListDue returns only active unsent due reminders", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		idea := mustCreate(t, repo, testIdea("Due check", "content", []float32{1, 0, 0}))

		due := testReminder(idea.ID, time.Now().Add(-time.Hour).UTC())
		due.Message = "due"
		future := testReminder(idea.ID, time.Now().Add(time.Hour).UTC())
		future.Message = "future"
		inactive := testReminder(idea.ID, time.Now().Add(-time.Hour).UTC())
		inactive.Message = "inactive"
		inactive.IsActive = false

		err := repo.Reminder().ReplaceForIdea(ctx, idea.ID, []*model.Reminder{due, future, inactive})
		gt.NoError(t, err).Required()

		got, err := repo.Reminder().ListDue(ctx, time.Now().UTC())
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1).Required()
		gt.Value(t, got[0].Message).Equal("due")

		// read-only: a second call returns the same set
		again, err := repo.Reminder().ListDue(ctx, time.Now().UTC())
		gt.NoError(t, err).Required()
		gt.Array(t, again).Length(1)
	})

	t.Run("MarkSent is idempotent and hides the reminder from ListDue", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		idea := mustCreate(t, repo, testIdea("Sent check", "content", []float32{1, 0, 0}))

		due := testReminder(idea.ID, time.Now().Add(-time.Hour).UTC())
		gt.NoError(t, repo.Reminder().ReplaceForIdea(ctx, idea.ID, []*model.Reminder{due})).Required()

		stored, err := repo.Reminder().ListByIdeaID(ctx, idea.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(1).Required()
		id := stored[0].ID

		gt.NoError(t, repo.Reminder().MarkSent(ctx, id)).Required()
		gt.NoError(t, repo.Reminder().MarkSent(ctx, id))

		got, err := repo.Reminder().Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.IsSent).True()

		dueNow, err := repo.Reminder().ListDue(ctx, time.Now().UTC())
		gt.NoError(t, err).Required()
		gt.Array(t, dueNow).Length(0)
	})

	t.Run("MarkSent missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Reminder().MarkSent(context.Background(), types.NewReminderID())
		gt.Bool(t, errors.Is(err, interfaces.ErrRecordNotFound)).True()
	})

	t.Run("Get missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Reminder().Get(context.Background(), types.NewReminderID())
		gt.Bool(t, errors.Is(err, interfaces.ErrRecordNotFound)).True()
	})
}

func TestMemoryReminderRepository(t *testing.T) {
	runReminderRepositoryTest(t, newMemoryRepository)
}

func TestSQLiteReminderRepository(t *testing.T) {
	runReminderRepositoryTest(t, newSQLiteRepository)
}

func TestFirestoreReminderRepository(t *testing.T) {
	runReminderRepositoryTest(t, newFirestoreRepository)
}
