package game

import (
	rand "math/rand/v2"
)

// Default fold probabilities for the random opponent
const (
	DefaultFoldOnCall  = 0.3
	DefaultFoldOnRaise = 0.4
)

// Policy decides how the opponent answers a call or a raise. The state passed
// in already includes the player's contribution.
type Policy interface {
	Decide(action Action, s RoundState) Response
}

// PolicyFunc adapts a function to the Policy interface
type PolicyFunc func(action Action, s RoundState) Response

// Decide implements Policy
func (f PolicyFunc) Decide(action Action, s RoundState) Response {
	return f(action, s)
}

// FixedPolicy always gives the same response
type FixedPolicy Response

// Decide implements Policy
func (p FixedPolicy) Decide(Action, RoundState) Response {
	return Response(p)
}

// ProbabilityPolicy folds with a fixed probability per action type
type ProbabilityPolicy struct {
	FoldOnCall  float64
	FoldOnRaise float64
	rng         *rand.Rand
}

// NewProbabilityPolicy creates a policy drawing from rng
func NewProbabilityPolicy(rng *rand.Rand, foldOnCall, foldOnRaise float64) *ProbabilityPolicy {
	if rng == nil {
		panic("rng is required for a probability policy")
	}
	return &ProbabilityPolicy{
		FoldOnCall:  foldOnCall,
		FoldOnRaise: foldOnRaise,
		rng:         rng,
	}
}

// Decide implements Policy
func (p *ProbabilityPolicy) Decide(action Action, _ RoundState) Response {
	var threshold float64
	switch action {
	case Call:
		threshold = p.FoldOnCall
	case Raise:
		threshold = p.FoldOnRaise
	default:
		return Match
	}

	if p.rng.Float64() < threshold {
		return Concede
	}
	return Match
}
