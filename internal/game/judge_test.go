package game

import (
	"testing"

	"github.com/lox/teenpatti/internal/deck"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/stretchr/testify/assert"
)

func TestCoinFlipJudge(t *testing.T) {
	judge := NewCoinFlipJudge(randutil.New(8))

	const n = 20000
	var wins int
	for range n {
		switch judge.Winner(RoundState{}) {
		case Player:
			wins++
		case Opponent:
		default:
			t.Fatal("coin flip must pick a side")
		}
	}
	assert.InDelta(t, 0.5, float64(wins)/n, 0.02)
}

func TestHandRankJudge(t *testing.T) {
	judge := NewHandRankJudge(randutil.New(1))

	tests := []struct {
		name     string
		player   string
		opponent string
		want     Participant
	}{
		{"trail beats pure sequence", "7h 7d 7c", "Ah Kh Qh", Player},
		{"sequence loses to color", "4c 5d 6h", "2s 9s Js", Opponent},
		{"A-2-3 beats K-Q-J", "Ac 2d 3h", "Ks Qd Jc", Player},
		{"pair kicker", "9h 9d 4c", "9s 9c 5d", Opponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := RoundState{
				PlayerHand:   deck.MustParseCards(tt.player),
				OpponentHand: deck.MustParseCards(tt.opponent),
			}
			assert.Equal(t, tt.want, judge.Winner(s))
			assert.Nil(t, s.Hand(Nobody))
		})
	}
}

func TestHandRankJudgeTieBreak(t *testing.T) {
	judge := &HandRankJudge{TieBreak: opponentWins}
	s := RoundState{
		PlayerHand:   deck.MustParseCards("Ah Kd 9c"),
		OpponentHand: deck.MustParseCards("As Kc 9d"),
	}
	assert.Equal(t, Opponent, judge.Winner(s))

	judge.TieBreak = playerWins
	assert.Equal(t, Player, judge.Winner(s))
}
