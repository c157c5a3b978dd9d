package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing decks")

	decks, err := s.Decks.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, decks)
}

func (s *Server) handleReplaceDecks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	body, err := readBody(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !isJSONArray(body) {
		log.Warn("replace-all body is not an array")
		handleError(w, r, errors.NewValidationError("body", "expected an array of decks"))
		return
	}

	var decks []models.Deck
	if err := json.Unmarshal(body, &decks); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid deck array: "+err.Error()))
		return
	}
	if decks == nil {
		decks = []models.Deck{}
	}

	log.WithField("count", len(decks)).Debug("replacing deck collection")
	if err := s.Decks.ReplaceAll(r.Context(), decks); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck collection replaced")
	writeOK(w, r)
}

func (s *Server) handleUpsertDeck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := logger.FromContext(r.Context()).WithField("deck_id", id)

	body, err := readBody(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var deck models.Deck
	if err := json.Unmarshal(body, &deck); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid deck: "+err.Error()))
		return
	}
	if deck.ID == "" {
		deck.ID = id
	}
	if deck.ID != id {
		log.Warn("path id does not match body id %q", deck.ID)
		handleError(w, r, errors.NewValidationError("id", "path id and body id differ"))
		return
	}

	if err := s.Decks.Upsert(r.Context(), deck); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck upserted")
	writeOK(w, r)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := logger.FromContext(r.Context()).WithField("deck_id", id)

	if err := s.Decks.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck deleted")
	writeOK(w, r)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewBadRequestError("unreadable request body: " + err.Error())
	}
	return body, nil
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}
