package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// requestTimeout bounds every deck API call. The repository checks the
// request context before writing, so an expired call never reaches the store.
const requestTimeout = 10 * time.Second

// Routes builds the HTTP handler for the deck API and the probes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(securityHeaders)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api/decks", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/", s.handleListDecks)
		r.Post("/", s.handleReplaceDecks)
		r.Put("/{id}", s.handleUpsertDeck)
		r.Delete("/{id}", s.handleDeleteDeck)
	})
	return r
}
