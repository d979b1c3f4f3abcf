package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
)

func TestSearch(t *testing.T) {
	t.Run("ranks related ideas above unrelated ones", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		related, err := uc.CreateIdea(ctx, &model.CreateIdeaInput{
			Title:   "Guild rollout plan",
			Content: "Roll out the new feature to every guild in stages",
			UserID:  "U001",
		})
		gt.NoError(t, err).Required()

		_, err = uc.CreateIdea(ctx, &model.CreateIdeaInput{
			Title:   "Pasta recipes",
			Content: "Collect favorite carbonara and ragu recipes",
			UserID:  "U001",
		})
		gt.NoError(t, err).Required()

		matches, err := uc.Search(ctx, "guild rollout", nil)
		gt.NoError(t, err).Required()

		gt.Number(t, len(matches)).GreaterOrEqual(1)
		gt.Value(t, matches[0].Idea.ID).Equal(related.ID)
		for i := 1; i < len(matches); i++ {
			gt.Bool(t, matches[i].Score <= matches[i-1].Score).True()
		}
	})

	t.Run("reflects updated content in ranking", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		idea, err := uc.CreateIdea(ctx, &model.CreateIdeaInput{
			Title:   "Deployment",
			Content: "Roll out to every guild at once",
			UserID:  "U001",
		})
		gt.NoError(t, err).Required()

		before, err := uc.Search(ctx, "guild rollout", nil)
		gt.NoError(t, err).Required()
		gt.Number(t, len(before)).GreaterOrEqual(1)
		scoreBefore := before[0].Score

		_, err = uc.UpdateIdea(ctx, &model.UpdateIdeaInput{
			ID:      idea.ID,
			Content: strp("Collect favorite carbonara and ragu recipes"),
		})
		gt.NoError(t, err).Required()

		// the score against the same query must change once the stored
		// vector reflects the new content
		after, err := uc.Search(ctx, "guild rollout", nil)
		gt.NoError(t, err).Required()
		if len(after) > 0 {
			gt.Bool(t, after[0].Score != scoreBefore).True()
		} else {
			gt.Bool(t, scoreBefore > 0).True()
		}
	})

	t.Run("applies threshold and limit", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		for _, title := range []string{"First idea", "Second idea", "Third idea"} {
			_, err := uc.CreateIdea(ctx, &model.CreateIdeaInput{
				Title:   title,
				Content: "shared idea content",
				UserID:  "U001",
			})
			gt.NoError(t, err).Required()
		}

		limited, err := uc.Search(ctx, "shared idea content", &model.SearchOptions{Limit: 2})
		gt.NoError(t, err).Required()
		gt.Array(t, limited).Length(2)

		strict, err := uc.Search(ctx, "completely unrelated query words", &model.SearchOptions{Threshold: 0.99})
		gt.NoError(t, err).Required()
		gt.Array(t, strict).Length(0)
	})

	t.Run("applies structured filter to results", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		ctx := context.Background()

		_, err := uc.CreateIdea(ctx, &model.CreateIdeaInput{
			Title: "Shared topic", Content: "vector search rollout", UserID: "alice",
		})
		gt.NoError(t, err).Required()
		_, err = uc.CreateIdea(ctx, &model.CreateIdeaInput{
			Title: "Shared topic", Content: "vector search rollout", UserID: "bob",
		})
		gt.NoError(t, err).Required()

		matches, err := uc.Search(ctx, "vector search rollout", &model.SearchOptions{
			Filter: &model.IdeaFilter{UserID: "alice"},
		})
		gt.NoError(t, err).Required()

		gt.Number(t, len(matches)).GreaterOrEqual(1)
		for _, m := range matches {
			gt.Value(t, m.Idea.UserID).Equal("alice")
		}
	})

	t.Run("rejects empty query", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)

		_, err := uc.Search(context.Background(), "", nil)
		gt.Error(t, err)
	})

	t.Run("rejects invalid filter", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)

		_, err := uc.Search(context.Background(), "query", &model.SearchOptions{
			Filter: &model.IdeaFilter{Category: types.Category("bogus")},
		})
		gt.Error(t, err)
	})
}
