package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashpulse/internal/models"
	"github.com/vytor/flashpulse/internal/store"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	require.NoError(t, store.Migrate(context.Background(), db), "failed to apply migrations")
	return db
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Deck builds a valid deck with one card per front/back pair.
func Deck(id, title string, faces ...string) models.Deck {
	d := models.Deck{
		ID:        id,
		Title:     title,
		Color:     models.DefaultColor(),
		Cards:     []models.Card{},
		CreatedAt: 1700000000000,
	}
	for i := 0; i+1 < len(faces); i += 2 {
		d.Cards = append(d.Cards, models.Card{
			ID:    id + "-c" + string(rune('0'+len(d.Cards))),
			Front: faces[i],
			Back:  faces[i+1],
		})
	}
	return d
}

// IDs lists deck identifiers in order.
func IDs(decks []models.Deck) []string {
	out := make([]string, len(decks))
	for i, d := range decks {
		out[i] = d.ID
	}
	return out
}
