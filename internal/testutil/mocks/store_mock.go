package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashpulse/internal/models"
)

// MockStore is a mock implementation of store.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Read(ctx context.Context) ([]models.Deck, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockStore) Write(ctx context.Context, decks []models.Deck) error {
	args := m.Called(ctx, decks)
	return args.Error(0)
}
