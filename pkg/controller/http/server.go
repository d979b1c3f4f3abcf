// Package http exposes the idea store over a small JSON REST API.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ideabank/ideabank/pkg/usecase"
	"github.com/ideabank/ideabank/pkg/utils/logging"
	"github.com/ideabank/ideabank/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/ideas", func(r chi.Router) {
			r.Post("/", s.createIdea)
			r.Get("/", s.listIdeas)
			r.Get("/{id}", s.getIdea)
			r.Put("/{id}", s.updateIdea)
			r.Delete("/{id}", s.deleteIdea)
		})

		r.Post("/search", s.search)

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/due", s.listDueReminders)
			r.Post("/{id}/sent", s.markReminderSent)
		})

		r.Get("/stats", s.getStats)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		safe.Write(req.Context(), w, []byte(`{"status":"ok"}`))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
