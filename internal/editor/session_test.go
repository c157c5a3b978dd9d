package editor_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashpulse/internal/editor"
	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/models"
	"github.com/vytor/flashpulse/internal/testutil"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newSession(deck *models.Deck) *editor.Session {
	return editor.New(deck,
		editor.WithIDGenerator(sequentialIDs()),
		editor.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestNew_CreateModeDefaults(t *testing.T) {
	s := newSession(nil)

	d := s.Draft()
	assert.False(t, s.Editing())
	assert.Empty(t, d.Title)
	assert.Empty(t, d.Description)
	assert.Equal(t, models.DefaultColor(), d.Color)
	assert.Empty(t, d.Cards)
}

func TestNew_EditModeCopiesDeck(t *testing.T) {
	orig := testutil.Deck("d1", "Capitals", "France", "Paris")
	s := newSession(&orig)

	require.NoError(t, s.UpdateCard(orig.Cards[0].ID, editor.FieldBack, "Lyon"))

	assert.True(t, s.Editing())
	assert.Equal(t, "Paris", orig.Cards[0].Back)
	assert.Equal(t, "Lyon", s.Draft().Cards[0].Back)
}

func TestCardOperations(t *testing.T) {
	s := newSession(nil)

	c1, err := s.AddCard()
	require.NoError(t, err)
	c2, err := s.AddCard()
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Empty(t, c1.Front)
	assert.Empty(t, c1.Back)

	require.NoError(t, s.UpdateCard(c1.ID, editor.FieldFront, "2+2"))
	require.NoError(t, s.UpdateCard(c1.ID, editor.FieldBack, "4"))
	require.NoError(t, s.UpdateCard(c2.ID, editor.FieldFront, "3+3"))

	d := s.Draft()
	require.Len(t, d.Cards, 2)
	assert.Equal(t, models.Card{ID: c1.ID, Front: "2+2", Back: "4"}, d.Cards[0])
	assert.Equal(t, models.Card{ID: c2.ID, Front: "3+3"}, d.Cards[1])

	require.NoError(t, s.RemoveCard(c1.ID))
	require.NoError(t, s.RemoveCard("missing"))
	assert.Equal(t, []models.Card{{ID: c2.ID, Front: "3+3"}}, s.Draft().Cards)
}

func TestUpdateCard_Errors(t *testing.T) {
	s := newSession(nil)
	c, err := s.AddCard()
	require.NoError(t, err)

	err = s.UpdateCard("missing", editor.FieldFront, "x")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = s.UpdateCard(c.ID, editor.Field("side"), "x")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestAddCard_SkipsIDsAlreadyInDeck(t *testing.T) {
	orig := testutil.Deck("d1", "Deck")
	orig.Cards = []models.Card{{ID: "id-1"}}
	s := newSession(&orig)

	c, err := s.AddCard()
	require.NoError(t, err)
	assert.Equal(t, "id-2", c.ID)
}

func TestSetColor(t *testing.T) {
	s := newSession(nil)

	require.NoError(t, s.SetColor("bg-amber-500"))
	assert.Equal(t, "bg-amber-500", s.Draft().Color)

	err := s.SetColor("bg-black")
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, "bg-amber-500", s.Draft().Color)
}

func TestCommit_RejectsBlankTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		s := newSession(nil)
		require.NoError(t, s.SetTitle(title))

		_, err := s.Commit()
		assert.True(t, errors.Is(err, errors.ErrValidation), "title %q", title)

		require.NoError(t, s.SetTitle("Fixed"))
		_, err = s.Commit()
		assert.NoError(t, err)
	}
}

func TestCommit_CreateMode(t *testing.T) {
	s := newSession(nil)
	require.NoError(t, s.SetTitle("Spanish"))
	require.NoError(t, s.SetDescription("verbs"))
	_, err := s.AddCard()
	require.NoError(t, err)

	deck, err := s.Commit()
	require.NoError(t, err)

	assert.Equal(t, "id-2", deck.ID)
	assert.Equal(t, fixedNow.UnixMilli(), deck.CreatedAt)
	assert.Equal(t, "Spanish", deck.Title)
	assert.Equal(t, "verbs", deck.Description)
	assert.Len(t, deck.Cards, 1)
	assert.Empty(t, models.ValidateDeck(deck))
}

func TestCommit_EditModeKeepsIdentity(t *testing.T) {
	orig := testutil.Deck("d1", "Capitals", "France", "Paris")
	s := newSession(&orig)
	require.NoError(t, s.SetTitle("World capitals"))

	deck, err := s.Commit()
	require.NoError(t, err)

	assert.Equal(t, "d1", deck.ID)
	assert.Equal(t, orig.CreatedAt, deck.CreatedAt)
	assert.Equal(t, "World capitals", deck.Title)
}

func TestCommit_ClosesSession(t *testing.T) {
	s := newSession(nil)
	require.NoError(t, s.SetTitle("T"))
	_, err := s.Commit()
	require.NoError(t, err)

	_, err = s.Commit()
	assert.ErrorIs(t, err, editor.ErrSessionClosed)
	assert.ErrorIs(t, s.SetTitle("again"), editor.ErrSessionClosed)
}

func TestCancel_DiscardsDraft(t *testing.T) {
	orig := testutil.Deck("d1", "Capitals", "France", "Paris")
	s := newSession(&orig)
	require.NoError(t, s.SetTitle("changed"))

	s.Cancel()

	assert.Equal(t, "Capitals", orig.Title)
	_, err := s.AddCard()
	assert.ErrorIs(t, err, editor.ErrSessionClosed)
	_, err = s.Commit()
	assert.ErrorIs(t, err, editor.ErrSessionClosed)
}
