package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/utils/errutil"
)

type searchRequest struct {
	Query     string            `json:"query"`
	Limit     int               `json:"limit,omitempty"`
	Threshold float64           `json:"threshold,omitempty"`
	Filter    *model.IdeaFilter `json:"filter,omitempty"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("search query is required"), http.StatusBadRequest)
		return
	}
	if err := req.Filter.Validate(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	matches, err := s.uc.Search(r.Context(), req.Query, &model.SearchOptions{
		Limit:     req.Limit,
		Threshold: req.Threshold,
		Filter:    req.Filter,
	})
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"results": matches})
}
