package cache

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/vytor/flashpulse/internal/errors"
)

// ErrDeletionResolved is returned when a pending deletion is confirmed or
// cancelled a second time.
var ErrDeletionResolved = stderrors.New("deletion already resolved")

// PendingDelete is a deletion waiting for the user's confirmation. Nothing
// changes until Confirm.
type PendingDelete struct {
	cache *Cache
	id    string
	title string
	cards int

	mu       sync.Mutex
	resolved bool
}

// RequestDelete starts the two-step deletion of a deck.
func (c *Cache) RequestDelete(id string) (*PendingDelete, error) {
	d, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return &PendingDelete{cache: c, id: d.ID, title: d.Title, cards: d.CardCount()}, nil
}

// DeckID is the deck that would be removed.
func (p *PendingDelete) DeckID() string { return p.id }

// Prompt is the confirmation question to show the user.
func (p *PendingDelete) Prompt() string {
	return fmt.Sprintf("Delete deck %q and its %d cards forever?", p.title, p.cards)
}

// Confirm removes the deck and schedules a push of the remaining collection.
func (p *PendingDelete) Confirm() error {
	if err := p.resolve(); err != nil {
		return err
	}
	if !p.cache.remove(p.id) {
		return errors.NewNotFoundError("deck", p.id)
	}
	return nil
}

// Cancel abandons the deletion.
func (p *PendingDelete) Cancel() error {
	return p.resolve()
}

func (p *PendingDelete) resolve() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved {
		return ErrDeletionResolved
	}
	p.resolved = true
	return nil
}
