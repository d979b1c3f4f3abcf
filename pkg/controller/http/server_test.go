package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/ideabank/ideabank/pkg/controller/http"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/repository/memory"
	"github.com/ideabank/ideabank/pkg/service/embedding"
	"github.com/ideabank/ideabank/pkg/usecase"
)

func newTestServer(t *testing.T) (*httpctrl.Server, *usecase.UseCases) {
	t.Helper()

	repo, err := memory.New(memory.WithIndexConfig(model.IndexConfig{Dimension: 32}))
	gt.NoError(t, err).Required()

	uc := usecase.New(repo, embedding.NewMock(32))
	return httpctrl.New(uc), uc
}

func doJSON(t *testing.T, srv *httpctrl.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out)).Required()
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Body.String()).Equal(`{"status":"ok"}`)
}

func TestIdeaEndpoints(t *testing.T) {
	t.Run("create then get", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := doJSON(t, srv, http.MethodPost, "/api/ideas", model.CreateIdeaInput{
			Title:   "Guild rollout",
			Content: "Roll out the feature to all guilds",
			UserID:  "U001",
			Tags:    []string{"rollout"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		created := decodeBody[model.Idea](t, rec)
		gt.Bool(t, created.ID != "").True()
		gt.Value(t, created.Category.String()).Equal("strategy")

		rec = doJSON(t, srv, http.MethodGet, "/api/ideas/"+created.ID.String(), nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		got := decodeBody[model.Idea](t, rec)
		gt.Value(t, got.Title).Equal("Guild rollout")
	})

	t.Run("create rejects invalid input", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := doJSON(t, srv, http.MethodPost, "/api/ideas", model.CreateIdeaInput{
			Title: "Missing content and user",
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("get missing returns 404", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := doJSON(t, srv, http.MethodGet, "/api/ideas/no-such-id", nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("update applies partial changes", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := doJSON(t, srv, http.MethodPost, "/api/ideas", model.CreateIdeaInput{
			Title:   "Original title",
			Content: "Original content",
			UserID:  "U001",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)
		created := decodeBody[model.Idea](t, rec)

		rec = doJSON(t, srv, http.MethodPut, "/api/ideas/"+created.ID.String(),
			map[string]any{"title": "Updated title"})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		updated := decodeBody[model.Idea](t, rec)
		gt.Value(t, updated.Title).Equal("Updated title")
		gt.Value(t, updated.Content).Equal("Original content")
	})

	t.Run("update missing returns 404", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := doJSON(t, srv, http.MethodPut, "/api/ideas/no-such-id",
			map[string]any{"title": "whatever"})
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("delete then 404", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := doJSON(t, srv, http.MethodPost, "/api/ideas", model.CreateIdeaInput{
			Title:   "Doomed",
			Content: "To be deleted",
			UserID:  "U001",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)
		created := decodeBody[model.Idea](t, rec)

		rec = doJSON(t, srv, http.MethodDelete, "/api/ideas/"+created.ID.String(), nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, decodeBody[map[string]bool](t, rec)["deleted"]).Equal(true)

		rec = doJSON(t, srv, http.MethodDelete, "/api/ideas/"+created.ID.String(), nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("list applies query filter", func(t *testing.T) {
		srv, _ := newTestServer(t)

		for _, userID := range []string{"alice", "bob"} {
			rec := doJSON(t, srv, http.MethodPost, "/api/ideas", model.CreateIdeaInput{
				Title:   "Idea for " + userID,
				Content: "content",
				UserID:  userID,
			})
			gt.Number(t, rec.Code).Equal(http.StatusCreated)
		}

		rec := doJSON(t, srv, http.MethodGet, "/api/ideas/?userId=alice", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		body := decodeBody[map[string][]model.Idea](t, rec)
		gt.Array(t, body["ideas"]).Length(1)
		gt.Value(t, body["ideas"][0].UserID).Equal("alice")
	})

	t.Run("list rejects invalid filter values", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := doJSON(t, srv, http.MethodGet, "/api/ideas/?status=paused", nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)

		rec = doJSON(t, srv, http.MethodGet, "/api/ideas/?createdAfter=yesterday", nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/ideas", model.CreateIdeaInput{
		Title:   "Guild rollout plan",
		Content: "Roll out the new feature to every guild",
		UserID:  "U001",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	t.Run("returns ranked matches", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/search",
			map[string]any{"query": "guild rollout"})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		body := decodeBody[map[string][]model.IdeaMatch](t, rec)
		gt.Number(t, len(body["results"])).GreaterOrEqual(1)
		gt.Value(t, body["results"][0].Idea.Title).Equal("Guild rollout plan")
		gt.Bool(t, body["results"][0].Score > 0).True()
	})

	t.Run("rejects empty query", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/search", map[string]any{"query": ""})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestReminderEndpoints(t *testing.T) {
	srv, uc := newTestServer(t)

	_, err := uc.CreateIdea(context.Background(), &model.CreateIdeaInput{
		Title:   "Follow up",
		Content: "Ping the team",
		UserID:  "U001",
		Reminders: []model.ReminderInput{
			{ScheduledFor: time.Now().Add(-time.Hour).UTC(), Message: "overdue"},
		},
	})
	gt.NoError(t, err).Required()

	rec := doJSON(t, srv, http.MethodGet, "/api/reminders/due", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	body := decodeBody[map[string][]model.Reminder](t, rec)
	gt.Array(t, body["reminders"]).Length(1)
	reminderID := body["reminders"][0].ID

	rec = doJSON(t, srv, http.MethodPost, "/api/reminders/"+reminderID.String()+"/sent", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decodeBody[map[string]bool](t, rec)["sent"]).Equal(true)

	rec = doJSON(t, srv, http.MethodGet, "/api/reminders/due", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.Array(t, decodeBody[map[string][]model.Reminder](t, rec)["reminders"]).Length(0)

	rec = doJSON(t, srv, http.MethodPost, "/api/reminders/no-such-id/sent", nil)
	gt.Number(t, rec.Code).Equal(http.StatusNotFound)
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/ideas", model.CreateIdeaInput{
		Title:   "Counted",
		Content: "content",
		UserID:  "U001",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, srv, http.MethodGet, "/api/stats", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	stats := decodeBody[model.Stats](t, rec)
	gt.Number(t, stats.Count).Equal(1)
}
