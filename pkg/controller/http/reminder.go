package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/ideabank/ideabank/pkg/utils/errutil"
)

func (s *Server) listDueReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.uc.GetDueReminders(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"reminders": reminders})
}

func (s *Server) markReminderSent(w http.ResponseWriter, r *http.Request) {
	id := types.ReminderID(chi.URLParam(r, "id"))

	marked, err := s.uc.MarkReminderSent(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if !marked {
		errutil.HandleHTTP(r.Context(), w, goerr.New("reminder not found", goerr.V("id", id)), http.StatusNotFound)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]bool{"sent": true})
}
