package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/ideabank/ideabank/pkg/utils/errutil"
)

func (s *Server) createIdea(w http.ResponseWriter, r *http.Request) {
	var input model.CreateIdeaInput
	if err := decodeJSON(r, &input); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	idea, err := s.uc.CreateIdea(r.Context(), &input)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusCreated, idea)
}

func (s *Server) getIdea(w http.ResponseWriter, r *http.Request) {
	id := types.IdeaID(chi.URLParam(r, "id"))

	idea, err := s.uc.GetIdea(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if idea == nil {
		errutil.HandleHTTP(r.Context(), w, goerr.New("idea not found", goerr.V("id", id)), http.StatusNotFound)
		return
	}

	respondJSON(w, r, http.StatusOK, idea)
}

func (s *Server) updateIdea(w http.ResponseWriter, r *http.Request) {
	var input model.UpdateIdeaInput
	if err := decodeJSON(r, &input); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	input.ID = types.IdeaID(chi.URLParam(r, "id"))
	if err := input.Validate(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	idea, err := s.uc.UpdateIdea(r.Context(), &input)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if idea == nil {
		errutil.HandleHTTP(r.Context(), w, goerr.New("idea not found", goerr.V("id", input.ID)), http.StatusNotFound)
		return
	}

	respondJSON(w, r, http.StatusOK, idea)
}

func (s *Server) deleteIdea(w http.ResponseWriter, r *http.Request) {
	id := types.IdeaID(chi.URLParam(r, "id"))

	deleted, err := s.uc.DeleteIdea(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if !deleted {
		errutil.HandleHTTP(r.Context(), w, goerr.New("idea not found", goerr.V("id", id)), http.StatusNotFound)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) listIdeas(w http.ResponseWriter, r *http.Request) {
	filter, limit, err := parseListQuery(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	ideas, err := s.uc.ListIdeas(r.Context(), filter, limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"ideas": ideas})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.GetStats(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, stats)
}

// parseListQuery builds the structured filter from query parameters.
// Tags are comma separated; timestamps are RFC 3339.
func parseListQuery(r *http.Request) (*model.IdeaFilter, int, error) {
	q := r.URL.Query()

	filter := &model.IdeaFilter{
		UserID:   q.Get("userId"),
		ChatID:   q.Get("chatId"),
		Category: types.Category(q.Get("category")),
		Priority: types.Priority(q.Get("priority")),
		Status:   types.Status(q.Get("status")),
	}
	if tags := q.Get("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	if v := q.Get("createdAfter"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, 0, goerr.Wrap(err, "invalid createdAfter", goerr.V("value", v))
		}
		filter.CreatedAfter = t
	}
	if v := q.Get("createdBefore"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, 0, goerr.Wrap(err, "invalid createdBefore", goerr.V("value", v))
		}
		filter.CreatedBefore = t
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, 0, goerr.New("invalid limit", goerr.V("value", v))
		}
		limit = n
	}

	return filter, limit, nil
}
