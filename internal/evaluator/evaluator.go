// Package evaluator ranks three-card Teen Patti hands.
//
// Categories from strongest to weakest are Trail (three of a kind), Pure
// Sequence (straight flush), Sequence, Color (flush), Pair and High Card.
// Aces are high except in A-2-3, which ranks directly below A-K-Q.
package evaluator

import (
	"fmt"
	"slices"

	"github.com/lox/teenpatti/internal/deck"
)

const (
	topRunValue   = 15 // A-K-Q
	wheelRunValue = 14 // A-2-3
)

// Evaluate returns the rank of a three-card hand.
func Evaluate(cards []deck.Card) (HandRank, error) {
	if len(cards) != deck.HandSize {
		return 0, fmt.Errorf("teen patti hands have %d cards, got %d", deck.HandSize, len(cards))
	}

	ranks := []int{int(cards[0].Rank), int(cards[1].Rank), int(cards[2].Rank)}
	slices.SortFunc(ranks, func(a, b int) int { return b - a })

	flush := cards[0].Suit == cards[1].Suit && cards[1].Suit == cards[2].Suit
	run, runValue := sequence(ranks)

	switch {
	case ranks[0] == ranks[2]:
		return newHandRank(TrailType, ranks[0]), nil
	case run && flush:
		return newHandRank(PureSequenceType, runValue), nil
	case run:
		return newHandRank(SequenceType, runValue), nil
	case flush:
		return newHandRank(ColorType, ranks...), nil
	case ranks[0] == ranks[1]:
		return newHandRank(PairType, ranks[0], ranks[2]), nil
	case ranks[1] == ranks[2]:
		return newHandRank(PairType, ranks[1], ranks[0]), nil
	default:
		return newHandRank(HighCardType, ranks...), nil
	}
}

// sequence reports whether descending ranks form a run and its ordering value.
func sequence(desc []int) (bool, int) {
	a, b, c := desc[0], desc[1], desc[2]
	if a == int(deck.Ace) && b == int(deck.Three) && c == int(deck.Two) {
		return true, wheelRunValue
	}
	if a-b != 1 || b-c != 1 {
		return false, 0
	}
	if a == int(deck.Ace) {
		return true, topRunValue
	}
	return true, a
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 on an exact tie.
func Compare(a, b []deck.Card) (int, error) {
	ra, err := Evaluate(a)
	if err != nil {
		return 0, err
	}
	rb, err := Evaluate(b)
	if err != nil {
		return 0, err
	}
	return ra.Compare(rb), nil
}
