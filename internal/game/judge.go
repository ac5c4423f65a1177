package game

import (
	rand "math/rand/v2"

	"github.com/lox/teenpatti/internal/evaluator"
)

// Judge picks the showdown winner. Returning anything other than Player awards
// the pot to the opponent.
type Judge interface {
	Winner(s RoundState) Participant
}

// JudgeFunc adapts a function to the Judge interface
type JudgeFunc func(s RoundState) Participant

// Winner implements Judge
func (f JudgeFunc) Winner(s RoundState) Participant {
	return f(s)
}

// CoinFlipJudge ignores the cards and picks either side with equal probability
type CoinFlipJudge struct {
	rng *rand.Rand
}

// NewCoinFlipJudge creates a judge drawing from rng
func NewCoinFlipJudge(rng *rand.Rand) *CoinFlipJudge {
	if rng == nil {
		panic("rng is required for a coin flip judge")
	}
	return &CoinFlipJudge{rng: rng}
}

// Winner implements Judge
func (j *CoinFlipJudge) Winner(RoundState) Participant {
	if j.rng.Float64() < 0.5 {
		return Player
	}
	return Opponent
}

// HandRankJudge compares the dealt hands by Teen Patti ranking. Exact ties
// are settled by TieBreak.
type HandRankJudge struct {
	TieBreak Judge
}

// NewHandRankJudge creates a ranking judge that breaks ties with a coin flip
func NewHandRankJudge(rng *rand.Rand) *HandRankJudge {
	return &HandRankJudge{TieBreak: NewCoinFlipJudge(rng)}
}

// Winner implements Judge
func (j *HandRankJudge) Winner(s RoundState) Participant {
	cmp, err := evaluator.Compare(s.Hand(Player), s.Hand(Opponent))
	if err != nil || cmp == 0 {
		return j.TieBreak.Winner(s)
	}
	if cmp > 0 {
		return Player
	}
	return Opponent
}
