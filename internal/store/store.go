// Package store persists the whole deck collection as one serialized
// document. Every write replaces the document; there is no partial update
// and no locking, so the last writer wins.
package store

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
)

// Store is the durable deck collection.
type Store interface {
	// Read returns the stored collection. A missing document is created
	// empty; an unparseable one reads as empty.
	Read(ctx context.Context) ([]models.Deck, error)
	// Write replaces the stored collection with decks.
	Write(ctx context.Context, decks []models.Deck) error
}

// emptyDocument is what a fresh store holds.
var emptyDocument = []byte("[]")

// encode renders the collection the way it is kept on disk: a pretty-printed
// JSON array, never null.
func encode(decks []models.Deck) ([]byte, error) {
	if decks == nil {
		decks = []models.Deck{}
	}
	return json.MarshalIndent(decks, "", "  ")
}

// decode parses a stored document. Blank input, null and anything that is
// not a JSON array of decks read as an empty collection.
func decode(ctx context.Context, raw []byte) []models.Deck {
	log := logger.FromContext(ctx).WithPrefix("store")
	if len(bytes.TrimSpace(raw)) == 0 {
		return []models.Deck{}
	}
	var decks []models.Deck
	if err := json.Unmarshal(raw, &decks); err != nil {
		log.Warn("deck document is corrupt, treating as empty: %v", err)
		return []models.Deck{}
	}
	if decks == nil {
		return []models.Deck{}
	}
	return decks
}
