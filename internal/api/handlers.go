package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/repository"
)

// maxBodyBytes bounds a deck collection upload.
const maxBodyBytes = 8 << 20

type Server struct {
	Decks repository.DeckRepository
	// Ready reports whether the backing store can serve requests. Nil means
	// always ready.
	Ready func(ctx context.Context) error
}

type okResponse struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response: %v", err)
	}
}

func writeOK(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, okResponse{OK: true})
}
