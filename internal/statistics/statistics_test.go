package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsEmpty(t *testing.T) {
	s := &Statistics{}

	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.WinRate())
	assert.Zero(t, s.ShowdownShare())
	assert.Error(t, s.Validate())
}

func TestStatisticsAdd(t *testing.T) {
	s := &Statistics{}
	s.Add(Round{Net: 10, Pot: 20, Won: true})
	s.Add(Round{Net: -35, Showdown: true, Pot: 70})
	s.Add(Round{Net: 45, Showdown: true, Pot: 90, Won: true})
	s.Add(Round{Net: -10, Pot: 20})

	assert.Equal(t, 4, s.Rounds)
	assert.Equal(t, 2, s.Wins())
	assert.Equal(t, 1, s.ShowdownWins)
	assert.Equal(t, 1, s.FoldWins)
	assert.Equal(t, 0.5, s.WinRate())
	assert.Equal(t, 0.5, s.ShowdownShare())
	assert.Equal(t, 90, s.MaxPot)
	assert.InDelta(t, 2.5, s.Mean(), 1e-9)
	assert.InDelta(t, 10.0, s.ShowdownNet, 1e-9)
	assert.InDelta(t, 0.0, s.FoldNet, 1e-9)
	assert.True(t, s.IsLedgerBalanced())
	require.NoError(t, s.Validate())
}

func TestStatisticsSpread(t *testing.T) {
	s := &Statistics{}
	for _, v := range []int{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(Round{Net: v})
	}

	assert.InDelta(t, 5.0, s.Mean(), 1e-9)
	assert.InDelta(t, 32.0/7.0, s.Variance(), 1e-9)
	assert.InDelta(t, 4.5, s.Median(), 1e-9)
	assert.InDelta(t, 2.0, s.Percentile(0), 1e-9)
	assert.InDelta(t, 9.0, s.Percentile(1), 1e-9)

	low, high := s.ConfidenceInterval95()
	assert.Less(t, low, s.Mean())
	assert.Greater(t, high, s.Mean())
	assert.InDelta(t, s.Mean(), (low+high)/2, 1e-9)
}

func TestStatisticsMerge(t *testing.T) {
	a := &Statistics{}
	a.Add(Round{Net: 10, Won: true, Pot: 20})
	b := &Statistics{}
	b.Add(Round{Net: -30, Showdown: true, Pot: 60})
	b.Add(Round{Net: 30, Showdown: true, Won: true, Pot: 60})

	a.Merge(b)

	assert.Equal(t, 3, a.Rounds)
	assert.Len(t, a.Values, 3)
	assert.Equal(t, 2, a.ShowdownRounds)
	assert.Equal(t, 60, a.MaxPot)
	assert.InDelta(t, 10.0/3.0, a.Mean(), 1e-9)
	require.NoError(t, a.Validate())
}

func TestStatisticsValidateDetectsMismatch(t *testing.T) {
	s := &Statistics{}
	s.Add(Round{Net: 5, Won: true})
	s.AllNet = 100
	assert.ErrorContains(t, s.Validate(), "ledger mismatch")
}
