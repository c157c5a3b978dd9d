// Package editor implements the draft a user edits before a deck is saved.
package editor

import (
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/models"
)

// ErrSessionClosed is returned by any call after Commit or Cancel.
var ErrSessionClosed = stderrors.New("editing session is closed")

// Field selects a card face.
type Field string

const (
	FieldFront Field = "front"
	FieldBack  Field = "back"
)

// Session is a transient, client-local draft of one deck.
type Session struct {
	mu     sync.Mutex
	orig   *models.Deck
	draft  models.Deck
	closed bool
	now    func() time.Time
	newID  func() string
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used to stamp new decks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithIDGenerator sets how deck and card ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		s.newID = fn
	}
}

// New starts a session. A nil deck starts an empty draft (create mode);
// otherwise the draft is a copy of deck (edit mode).
func New(deck *models.Deck, opts ...Option) *Session {
	s := &Session{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if deck != nil {
		orig := deck.Clone()
		s.orig = &orig
		s.draft = deck.Clone()
	} else {
		s.draft = models.Deck{
			Color: models.DefaultColor(),
			Cards: []models.Card{},
		}
	}
	return s
}

// Editing reports whether the session edits an existing deck.
func (s *Session) Editing() bool {
	return s.orig != nil
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() models.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

func (s *Session) SetTitle(title string) error {
	return s.edit(func(d *models.Deck) error {
		d.Title = title
		return nil
	})
}

func (s *Session) SetDescription(desc string) error {
	return s.edit(func(d *models.Deck) error {
		d.Description = desc
		return nil
	})
}

// SetColor changes the deck color to another palette entry.
func (s *Session) SetColor(color string) error {
	return s.edit(func(d *models.Deck) error {
		if !models.IsPaletteColor(color) {
			return errors.NewValidationError("color", "not a palette color: "+color)
		}
		d.Color = color
		return nil
	})
}

// AddCard appends a blank card and returns it.
func (s *Session) AddCard() (models.Card, error) {
	var card models.Card
	err := s.edit(func(d *models.Deck) error {
		card = models.Card{ID: s.uniqueCardID(d)}
		d.Cards = append(d.Cards, card)
		return nil
	})
	return card, err
}

// UpdateCard replaces one face of the card with the given id.
func (s *Session) UpdateCard(id string, field Field, value string) error {
	return s.edit(func(d *models.Deck) error {
		i := d.CardIndex(id)
		if i < 0 {
			return errors.NewNotFoundError("card", id)
		}
		switch field {
		case FieldFront:
			d.Cards[i].Front = value
		case FieldBack:
			d.Cards[i].Back = value
		default:
			return errors.NewValidationError("field", "must be front or back")
		}
		return nil
	})
}

// RemoveCard deletes the card with the given id if it exists.
func (s *Session) RemoveCard(id string) error {
	return s.edit(func(d *models.Deck) error {
		if i := d.CardIndex(id); i >= 0 {
			d.Cards = append(d.Cards[:i:i], d.Cards[i+1:]...)
		}
		return nil
	})
}

// Commit finalizes the draft. A blank title is rejected and the session
// stays open. On success the session is closed.
func (s *Session) Commit() (models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.Deck{}, ErrSessionClosed
	}
	if strings.TrimSpace(s.draft.Title) == "" {
		return models.Deck{}, errors.NewValidationError("title", "must not be blank")
	}

	deck := s.draft.Clone()
	if s.orig != nil {
		deck.ID = s.orig.ID
		deck.CreatedAt = s.orig.CreatedAt
	} else {
		deck.ID = s.newID()
		deck.CreatedAt = s.now().UnixMilli()
	}
	s.closed = true
	return deck, nil
}

// Cancel discards the draft.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.draft = models.Deck{}
}

func (s *Session) edit(fn func(*models.Deck) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return fn(&s.draft)
}

// uniqueCardID draws ids until one is unused in the deck.
func (s *Session) uniqueCardID(d *models.Deck) string {
	for {
		id := s.newID()
		if d.CardIndex(id) < 0 {
			return id
		}
	}
}
