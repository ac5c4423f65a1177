// Package statistics accumulates per-round results from simulated sessions.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// Round is the outcome of a single round from the player's seat
type Round struct {
	Net      int  // chips won or lost by the player
	Showdown bool // round ended with a comparison of hands
	Pot      int  // amount paid to the winner
	Won      bool
}

// Statistics tracks net chips per round for the player
type Statistics struct {
	Rounds int
	Sum    float64
	SumSq  float64 // for variance
	Values []float64

	ShowdownRounds int
	ShowdownWins   int
	FoldWins       int // won because the opponent conceded
	ShowdownNet    float64
	FoldNet        float64 // rounds decided by a fold, either side
	AllNet         float64

	MaxPot int
}

// Add incorporates a round
func (s *Statistics) Add(r Round) {
	net := float64(r.Net)
	s.Rounds++
	s.Sum += net
	s.SumSq += net * net
	s.Values = append(s.Values, net)
	s.AllNet += net

	if r.Showdown {
		s.ShowdownRounds++
		s.ShowdownNet += net
		if r.Won {
			s.ShowdownWins++
		}
	} else {
		s.FoldNet += net
		if r.Won {
			s.FoldWins++
		}
	}

	if r.Pot > s.MaxPot {
		s.MaxPot = r.Pot
	}
}

// Merge folds another set of statistics into s
func (s *Statistics) Merge(o *Statistics) {
	s.Rounds += o.Rounds
	s.Sum += o.Sum
	s.SumSq += o.SumSq
	s.Values = append(s.Values, o.Values...)
	s.ShowdownRounds += o.ShowdownRounds
	s.ShowdownWins += o.ShowdownWins
	s.FoldWins += o.FoldWins
	s.ShowdownNet += o.ShowdownNet
	s.FoldNet += o.FoldNet
	s.AllNet += o.AllNet
	s.MaxPot = max(s.MaxPot, o.MaxPot)
}

// Wins returns the number of rounds the player won
func (s *Statistics) Wins() int {
	return s.ShowdownWins + s.FoldWins
}

// WinRate returns the share of rounds won by the player
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins()) / float64(s.Rounds)
}

// ShowdownShare returns the share of rounds that reached a showdown
func (s *Statistics) ShowdownShare() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.ShowdownRounds) / float64(s.Rounds)
}

// Mean returns the mean net chips per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.Sum / float64(s.Rounds)
}

// Variance returns the sample variance
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median net result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at p in [0,1], interpolating between
// neighbouring results
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced reports whether showdown and fold buckets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.ShowdownNet-s.FoldNet) <= 1e-6
}

// Validate checks the accumulated counters are consistent
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: all=%.2f showdown=%.2f fold=%.2f",
			s.AllNet, s.ShowdownNet, s.FoldNet)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid round count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values length (%d) does not match round count (%d)", len(s.Values), s.Rounds)
	}
	if s.Wins() > s.Rounds {
		return fmt.Errorf("wins (%d) exceed rounds (%d)", s.Wins(), s.Rounds)
	}
	if s.ShowdownWins > s.ShowdownRounds {
		return fmt.Errorf("showdown wins (%d) exceed showdown rounds (%d)", s.ShowdownWins, s.ShowdownRounds)
	}
	return nil
}
