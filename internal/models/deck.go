package models

// Card is one question/answer pair. Its ID is unique within the owning deck.
type Card struct {
	ID    string `json:"id" validate:"required"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Deck is a titled, ordered collection of cards. Card order is quiz order.
type Deck struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"palette"`
	Cards       []Card `json:"cards" validate:"dive"`
	CreatedAt   int64  `json:"createdAt" validate:"gte=0"`
}

// CardCount returns the number of cards in the deck.
func (d Deck) CardCount() int {
	return len(d.Cards)
}

// Clone returns a copy of the deck that shares no card storage with d.
func (d Deck) Clone() Deck {
	out := d
	out.Cards = make([]Card, len(d.Cards))
	copy(out.Cards, d.Cards)
	return out
}

// CardIndex returns the position of the card with the given id, or -1.
func (d Deck) CardIndex(id string) int {
	for i, c := range d.Cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// IndexOf returns the position of the deck with the given id, or -1.
func IndexOf(decks []Deck, id string) int {
	for i, d := range decks {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// CloneAll deep-copies a deck collection. A nil input yields an empty slice.
func CloneAll(decks []Deck) []Deck {
	out := make([]Deck, len(decks))
	for i, d := range decks {
		out[i] = d.Clone()
	}
	return out
}
