package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
	"github.com/vytor/flashpulse/internal/store"
)

// DeckRepository handles deck data access. Every operation reads the full
// collection, changes it in memory and writes the full collection back.
type DeckRepository interface {
	List(ctx context.Context) ([]models.Deck, error)
	ReplaceAll(ctx context.Context, decks []models.Deck) error
	Upsert(ctx context.Context, deck models.Deck) error
	Delete(ctx context.Context, id string) error
}

type deckRepository struct {
	store store.Store
}

// NewDeckRepository creates a DeckRepository over the given store.
func NewDeckRepository(s store.Store) DeckRepository {
	return &deckRepository{store: s}
}

func (r *deckRepository) List(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	decks, err := r.store.Read(ctx)
	if err != nil {
		log.Error("failed to read decks: %v", err)
		return nil, storeError(ctx, err)
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	log.Debug("listed %d decks", len(decks))
	return decks, nil
}

func (r *deckRepository) ReplaceAll(ctx context.Context, decks []models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	if decks == nil {
		return errors.NewValidationError("decks", "expected an array of decks")
	}
	if err := validateCollection(decks); err != nil {
		return err
	}

	log.Debug("replacing collection with %d decks", len(decks))
	if err := beforeWrite(ctx); err != nil {
		log.Warn("abandoning replace: %v", err)
		return err
	}
	if err := r.store.Write(ctx, decks); err != nil {
		log.Error("failed to write decks: %v", err)
		return storeError(ctx, err)
	}
	return nil
}

func (r *deckRepository) Upsert(ctx context.Context, deck models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo").WithField("deck_id", deck.ID)
	if err := validateDeck("deck", deck); err != nil {
		return err
	}

	decks, err := r.store.Read(ctx)
	if err != nil {
		log.Error("failed to read decks: %v", err)
		return storeError(ctx, err)
	}

	if i := models.IndexOf(decks, deck.ID); i >= 0 {
		log.Debug("replacing deck at position %d", i)
		decks[i] = deck
	} else {
		log.Debug("appending new deck")
		decks = append(decks, deck)
	}

	if err := beforeWrite(ctx); err != nil {
		log.Warn("abandoning upsert: %v", err)
		return err
	}
	if err := r.store.Write(ctx, decks); err != nil {
		log.Error("failed to write decks: %v", err)
		return storeError(ctx, err)
	}
	return nil
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo").WithField("deck_id", id)

	decks, err := r.store.Read(ctx)
	if err != nil {
		log.Error("failed to read decks: %v", err)
		return storeError(ctx, err)
	}

	kept := decks[:0]
	for _, d := range decks {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(decks) {
		log.Debug("no deck with this id, nothing removed")
	}

	if err := beforeWrite(ctx); err != nil {
		log.Warn("abandoning delete: %v", err)
		return err
	}
	if err := r.store.Write(ctx, kept); err != nil {
		log.Error("failed to write decks: %v", err)
		return storeError(ctx, err)
	}
	return nil
}

// beforeWrite stops a request whose deadline passed from writing the store
// after its caller has already been answered.
func beforeWrite(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError(err)
	}
	return nil
}

// storeError classifies a store failure; a cancelled or expired request is a
// timeout rather than an internal error.
func storeError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.NewTimeoutError(err)
	}
	return errors.NewInternalError(err)
}

func validateDeck(field string, d models.Deck) error {
	problems := models.ValidateDeck(d)
	if len(problems) == 0 {
		return nil
	}
	reasons := make([]string, len(problems))
	for i, p := range problems {
		reasons[i] = p.String()
	}
	return errors.NewValidationError(field, strings.Join(reasons, ", "))
}

func validateCollection(decks []models.Deck) error {
	seen := make(map[string]int, len(decks))
	for i, d := range decks {
		if err := validateDeck(fmt.Sprintf("decks[%d]", i), d); err != nil {
			return err
		}
		if j, dup := seen[d.ID]; dup {
			return errors.NewValidationError(fmt.Sprintf("decks[%d].id", i), fmt.Sprintf("duplicates decks[%d].id %q", j, d.ID))
		}
		seen[d.ID] = i
	}
	return nil
}
