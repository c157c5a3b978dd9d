package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashpulse/internal/models"
)

func validDeck() models.Deck {
	return models.Deck{
		ID:        "d1",
		Title:     "Capitals",
		Color:     models.DefaultColor(),
		Cards:     []models.Card{{ID: "c1", Front: "France", Back: "Paris"}},
		CreatedAt: 1700000000000,
	}
}

func TestClone_DoesNotShareCards(t *testing.T) {
	d := validDeck()
	c := d.Clone()
	c.Cards[0].Back = "Lyon"

	assert.Equal(t, "Paris", d.Cards[0].Back)
	assert.Equal(t, "Lyon", c.Cards[0].Back)
}

func TestCloneAll_NilIsEmpty(t *testing.T) {
	out := models.CloneAll(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestIndexOf(t *testing.T) {
	decks := []models.Deck{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, models.IndexOf(decks, "b"))
	assert.Equal(t, -1, models.IndexOf(decks, "z"))
}

func TestPalette(t *testing.T) {
	p := models.Palette()
	require.Len(t, p, 8)
	assert.Equal(t, "bg-indigo-500", models.DefaultColor())
	assert.True(t, models.IsPaletteColor("bg-violet-600"))
	assert.False(t, models.IsPaletteColor("bg-black"))

	p[0] = "changed"
	assert.Equal(t, "bg-indigo-500", models.Palette()[0])
}

func TestValidateDeck(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Deck)
		field  string
	}{
		{name: "valid", mutate: func(d *models.Deck) {}},
		{name: "missing id", mutate: func(d *models.Deck) { d.ID = "" }, field: "id"},
		{name: "missing title", mutate: func(d *models.Deck) { d.Title = "" }, field: "title"},
		{name: "blank title", mutate: func(d *models.Deck) { d.Title = "   " }, field: "title"},
		{name: "bad color", mutate: func(d *models.Deck) { d.Color = "bg-black" }, field: "color"},
		{name: "card without id", mutate: func(d *models.Deck) { d.Cards[0].ID = "" }, field: "cards[0].id"},
		{name: "negative createdAt", mutate: func(d *models.Deck) { d.CreatedAt = -1 }, field: "createdat"},
		{name: "empty cards allowed", mutate: func(d *models.Deck) { d.Cards = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDeck()
			tt.mutate(&d)
			errs := models.ValidateDeck(d)
			if tt.field == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}
