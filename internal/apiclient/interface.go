package apiclient

import (
	"context"

	"github.com/vytor/flashpulse/internal/models"
)

// ClientInterface defines the deck API operations the client side uses.
type ClientInterface interface {
	ListDecks(ctx context.Context) ([]models.Deck, error)
	ReplaceDecks(ctx context.Context, decks []models.Deck) error
	UpsertDeck(ctx context.Context, deck models.Deck) error
	DeleteDeck(ctx context.Context, id string) error
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
