package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck
const Size = 52

// HandSize is the number of cards dealt to each participant
const HandSize = 3

// ShuffledDeck returns all 52 cards in a uniformly random order drawn from rng.
func ShuffledDeck(rng *rand.Rand) []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	// Fisher-Yates
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	return cards
}

// Deck is an ordered sequence of remaining cards, drawn from the front
type Deck struct {
	cards []Card
}

// NewDeck creates a freshly shuffled deck
func NewDeck(rng *rand.Rand) *Deck {
	return &Deck{cards: ShuffledDeck(rng)}
}

// FromCards creates a deck with a fixed order. The slice is copied.
func FromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealHands deals three cards to each of two hands, alternating, starting with
// the first hand. It returns false if fewer than six cards remain.
func (d *Deck) DealHands() (first, second []Card, ok bool) {
	if len(d.cards) < 2*HandSize {
		return nil, nil, false
	}

	first = make([]Card, 0, HandSize)
	second = make([]Card, 0, HandSize)
	for range HandSize {
		c, _ := d.Draw()
		first = append(first, c)
		c, _ = d.Draw()
		second = append(second, c)
	}
	return first, second, true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Remaining returns a copy of the undealt cards in order
func (d *Deck) Remaining() []Card {
	return append([]Card(nil), d.cards...)
}
