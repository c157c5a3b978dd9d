package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashpulse/internal/models"
)

// MockDeckClient is a mock implementation of apiclient.ClientInterface
type MockDeckClient struct {
	mock.Mock
}

func (m *MockDeckClient) ListDecks(ctx context.Context) ([]models.Deck, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockDeckClient) ReplaceDecks(ctx context.Context, decks []models.Deck) error {
	args := m.Called(ctx, decks)
	return args.Error(0)
}

func (m *MockDeckClient) UpsertDeck(ctx context.Context, deck models.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckClient) DeleteDeck(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
