package repository_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
)

func testIdea(title, content string, embedding []float32) *model.Idea {
	return &model.Idea{
		Title:     title,
		Content:   content,
		Category:  types.Category("").Normalize(),
		Priority:  types.Priority("").Normalize(),
		Status:    types.Status("").Normalize(),
		UserID:    "user-1",
		Embedding: embedding,
	}
}

func mustCreate(t *testing.T, repo interfaces.Repository, idea *model.Idea) *model.Idea {
	t.Helper()
	created, err := repo.Idea().Create(context.Background(), idea)
	gt.NoError(t, err).Required()
	// keep CreatedAt ordering distinct across records
	time.Sleep(5 * time.Millisecond)
	return created
}

func runIdeaRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		idea := testIdea("Test idea", "Some content", []float32{1, 0, 0})
		idea.Tags = []string{"go", "search"}

		created, err := repo.Idea().Create(ctx, idea)
		gt.NoError(t, err).Required()

		gt.Bool(t, created.ID != "").True()
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()
		gt.Value(t, created.Title).Equal("Test idea")
	})

	t.Run("Create rejects dimension mismatch", func(t *testing.T) {
		repo := newRepo(t)

		idea := testIdea("Bad vector", "Wrong size", []float32{1, 0})
		_, err := repo.Idea().Create(context.Background(), idea)
		gt.Error(t, err)
	})

	t.Run("Get returns stored idea", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := mustCreate(t, repo, testIdea("Stored", "Persisted content", []float32{0, 1, 0}))

		got, err := repo.Idea().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, got.Content).Equal("Persisted content")
		gt.Array(t, got.Embedding).Length(testDimension)
	})

	t.Run("Get missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Idea().Get(context.Background(), types.NewIdeaID())
		gt.Bool(t, errors.Is(err, interfaces.ErrRecordNotFound)).True()
	})

	t.Run("Update replaces fields and preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := mustCreate(t, repo, testIdea("Original", "Original content", []float32{1, 0, 0}))

		modified := created.Clone()
		modified.Title = "Updated"
		modified.Status = types.StatusCompleted
		modified.Embedding = []float32{0, 0, 1}

		updated, err := repo.Idea().Update(ctx, modified)
		gt.NoError(t, err).Required()

		gt.Value(t, updated.Title).Equal("Updated")
		gt.Value(t, updated.Status).Equal(types.StatusCompleted)
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
		gt.Bool(t, updated.UpdatedAt.Before(created.UpdatedAt)).False()
	})

	t.Run("Update missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		ghost := testIdea("Ghost", "Never stored", []float32{1, 0, 0})
		ghost.ID = types.NewIdeaID()

		_, err := repo.Idea().Update(context.Background(), ghost)
		gt.Bool(t, errors.Is(err, interfaces.ErrRecordNotFound)).True()
	})

	t.Run("Delete cascades reminders", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := mustCreate(t, repo, testIdea("Doomed", "To be deleted", []float32{1, 0, 0}))

		reminders := []*model.Reminder{
			{IdeaID: created.ID, Type: types.ReminderOnce, ScheduledFor: time.Now().Add(time.Hour).UTC(), IsActive: true},
			{IdeaID: created.ID, Type: types.ReminderOnce, ScheduledFor: time.Now().Add(2 * time.Hour).UTC(), IsActive: true},
		}
		gt.NoError(t, repo.Reminder().ReplaceForIdea(ctx, created.ID, reminders)).Required()

		gt.NoError(t, repo.Idea().Delete(ctx, created.ID)).Required()

		_, err := repo.Idea().Get(ctx, created.ID)
		gt.Bool(t, errors.Is(err, interfaces.ErrRecordNotFound)).True()

		remaining, err := repo.Reminder().ListByIdeaID(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, remaining).Length(0)
	})

	t.Run("Delete missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Idea().Delete(context.Background(), types.NewIdeaID())
		gt.Bool(t, errors.Is(err, interfaces.ErrRecordNotFound)).True()
	})

	t.Run("List filters and orders newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			idea := testIdea(fmt.Sprintf("Idea %d", i), "content", []float32{1, 0, 0})
			if i == 2 {
				idea.UserID = "user-2"
			}
			mustCreate(t, repo, idea)
		}

		all, err := repo.Idea().List(ctx, nil, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3).Required()
		for i := 1; i < len(all); i++ {
			gt.Bool(t, all[i].CreatedAt.After(all[i-1].CreatedAt)).False()
		}

		filtered, err := repo.Idea().List(ctx, &model.IdeaFilter{UserID: "user-2"}, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, filtered).Length(1).Required()
		gt.Value(t, filtered[0].UserID).Equal("user-2")

		limited, err := repo.Idea().List(ctx, nil, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, limited).Length(2)
	})

	t.Run("List filters by tag overlap", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tagged := testIdea("Tagged", "content", []float32{1, 0, 0})
		tagged.Tags = []string{"go", "vector"}
		mustCreate(t, repo, tagged)

		other := testIdea("Other", "content", []float32{0, 1, 0})
		other.Tags = []string{"python"}
		mustCreate(t, repo, other)

		got, err := repo.Idea().List(ctx, &model.IdeaFilter{Tags: []string{"vector", "rust"}}, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1).Required()
		gt.Value(t, got[0].Title).Equal("Tagged")

		// substring must not match
		sub, err := repo.Idea().List(ctx, &model.IdeaFilter{Tags: []string{"vec"}}, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, sub).Length(0)
	})

	t.Run("List filters by creation range", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mustCreate(t, repo, testIdea("Old", "content", []float32{1, 0, 0}))
		cutoff := time.Now().UTC()
		time.Sleep(5 * time.Millisecond)
		mustCreate(t, repo, testIdea("New", "content", []float32{0, 1, 0}))

		got, err := repo.Idea().List(ctx, &model.IdeaFilter{CreatedAfter: cutoff}, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1).Required()
		gt.Value(t, got[0].Title).Equal("New")
	})

	t.Run("FindSimilar ranks by cosine similarity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		exact := mustCreate(t, repo, testIdea("Exact", "content", []float32{1, 0, 0}))
		near := mustCreate(t, repo, testIdea("Near", "content", []float32{0.7, 0.7, 0}))
		mustCreate(t, repo, testIdea("Far", "content", []float32{0, 1, 0}))

		matches, err := repo.Idea().FindSimilar(ctx, []float32{1, 0, 0}, 2, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(2).Required()

		gt.Value(t, matches[0].Idea.ID).Equal(exact.ID)
		gt.Value(t, matches[1].Idea.ID).Equal(near.ID)
		gt.Bool(t, math.Abs(matches[0].Score-1.0) < 0.01).True()
		gt.Bool(t, math.Abs(matches[1].Score-0.7071) < 0.01).True()
		gt.Bool(t, matches[0].Score >= matches[1].Score).True()
	})

	t.Run("FindSimilar applies structured filter", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mine := testIdea("Mine", "content", []float32{1, 0, 0})
		mine.UserID = "alice"
		mustCreate(t, repo, mine)

		theirs := testIdea("Theirs", "content", []float32{1, 0, 0})
		theirs.UserID = "bob"
		mustCreate(t, repo, theirs)

		matches, err := repo.Idea().FindSimilar(ctx, []float32{1, 0, 0}, 10, &model.IdeaFilter{UserID: "alice"})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(1).Required()
		gt.Value(t, matches[0].Idea.UserID).Equal("alice")
	})

	t.Run("FindSimilar combines equality predicates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		match := testIdea("Match", "content", []float32{1, 0, 0})
		match.UserID = "alice"
		match.Category = types.CategoryProduct
		match.Status = types.StatusActive
		mustCreate(t, repo, match)

		wrongCategory := testIdea("Wrong category", "content", []float32{1, 0, 0})
		wrongCategory.UserID = "alice"
		wrongCategory.Category = types.CategoryStrategy
		wrongCategory.Status = types.StatusActive
		mustCreate(t, repo, wrongCategory)

		wrongStatus := testIdea("Wrong status", "content", []float32{1, 0, 0})
		wrongStatus.UserID = "alice"
		wrongStatus.Category = types.CategoryProduct
		wrongStatus.Status = types.StatusArchived
		mustCreate(t, repo, wrongStatus)

		matches, err := repo.Idea().FindSimilar(ctx, []float32{1, 0, 0}, 10, &model.IdeaFilter{
			UserID:   "alice",
			Category: types.CategoryProduct,
			Status:   types.StatusActive,
		})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(1).Required()
		gt.Value(t, matches[0].Idea.Title).Equal("Match")
	})

	t.Run("FindSimilar rejects dimension mismatch", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Idea().FindSimilar(context.Background(), []float32{1, 0}, 10, nil)
		gt.Error(t, err)
	})
}

func TestMemoryIdeaRepository(t *testing.T) {
	runIdeaRepositoryTest(t, newMemoryRepository)
}

func TestSQLiteIdeaRepository(t *testing.T) {
	runIdeaRepositoryTest(t, newSQLiteRepository)
}

func TestFirestoreIdeaRepository(t *testing.T) {
	runIdeaRepositoryTest(t, newFirestoreRepository)
}
