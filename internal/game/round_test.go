package game

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/teenpatti/internal/deck"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
}

func TestNewRound(t *testing.T) {
	rng := randutil.New(42)
	r, err := NewRound(rng, 10, WithRoundID("r1"), WithRoundLogger(quietLogger()))
	require.NoError(t, err)

	s := r.State()
	assert.Equal(t, "r1", s.ID)
	assert.Equal(t, 20, s.Pot)
	assert.Equal(t, 10, s.CurrentBet)
	assert.Equal(t, 990, s.PlayerChips)
	assert.Equal(t, 990, s.OpponentChips)
	assert.True(t, s.IsBlind)
	assert.False(t, s.BetPlaced)
	assert.Equal(t, Betting, s.State)
	assert.Equal(t, Nobody, s.Winner)
	assert.Len(t, s.PlayerHand, deck.HandSize)
	assert.Len(t, s.OpponentHand, deck.HandSize)
	assert.False(t, r.IsComplete())
}

func TestNewRoundDealsAlternately(t *testing.T) {
	cards := deck.ShuffledDeck(randutil.New(7))
	d := deck.FromCards(cards)

	r, err := NewRound(randutil.New(1), 10, WithDeck(d))
	require.NoError(t, err)

	s := r.State()
	assert.Equal(t, []deck.Card{cards[0], cards[2], cards[4]}, s.PlayerHand)
	assert.Equal(t, []deck.Card{cards[1], cards[3], cards[5]}, s.OpponentHand)
	assert.Equal(t, deck.Size-6, d.CardsRemaining())
}

func TestNewRoundValidation(t *testing.T) {
	tests := []struct {
		name    string
		boot    int
		opts    []RoundOption
		wantErr error
	}{
		{"boot below minimum", 5, nil, ErrInvalidConfiguration},
		{"boot above maximum", 110, nil, ErrInvalidConfiguration},
		{"boot off step", 25, nil, ErrInvalidConfiguration},
		{"player short", 50, []RoundOption{WithStacks(40, 1000)}, ErrInsufficientChips},
		{"opponent short", 50, []RoundOption{WithStacks(1000, 49)}, ErrInsufficientChips},
		{"deck too small", 10, []RoundOption{WithDeck(deck.FromCards(deck.MustParseCards("As Ks Qs")))}, ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRound(randutil.New(1), tt.boot, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRoundExactStack(t *testing.T) {
	r, err := NewRound(randutil.New(1), 50, WithStacks(50, 50))
	require.NoError(t, err)
	s := r.State()
	assert.Equal(t, 0, s.PlayerChips)
	assert.Equal(t, 0, s.OpponentChips)
	assert.Equal(t, 100, s.Pot)
}

func TestNewRoundRequiresRNG(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = NewRound(nil, 10)
	})
}

func TestRoundActAndView(t *testing.T) {
	r, err := NewRound(randutil.New(3), 10,
		WithRoundID("view"),
		WithPolicy(alwaysMatch),
		WithJudge(playerWins),
	)
	require.NoError(t, err)

	v := r.View()
	assert.Equal(t, "betting", v.State)
	assert.True(t, v.OpponentHandHidden)
	assert.Nil(t, v.OpponentHand)
	assert.True(t, v.CanToggleBlind)

	out, err := r.Act(Raise)
	require.NoError(t, err)
	assert.Equal(t, "raise", out.Action)
	assert.Equal(t, "betting", out.State)
	assert.Equal(t, 0, out.Payout)
	assert.False(t, out.View.CanToggleBlind)

	out, err = r.Act(Show)
	require.NoError(t, err)
	assert.Equal(t, "gameOver", out.State)
	assert.Equal(t, "player", out.Winner)
	assert.Equal(t, 40, out.Payout)
	assert.True(t, out.Showdown)
	assert.True(t, r.IsComplete())

	v = r.View()
	assert.False(t, v.OpponentHandHidden)
	assert.Len(t, v.OpponentHand, deck.HandSize)
	assert.False(t, v.CanToggleBlind)

	_, err = r.Act(Call)
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestRoundToggleBlind(t *testing.T) {
	r, err := NewRound(randutil.New(3), 10, WithPolicy(alwaysMatch))
	require.NoError(t, err)

	blind, err := r.ToggleBlind()
	require.NoError(t, err)
	assert.False(t, blind)

	_, err = r.Act(Raise)
	require.NoError(t, err)

	blind, err = r.ToggleBlind()
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.False(t, blind)
}

func TestRoundViewIsACopy(t *testing.T) {
	r, err := NewRound(randutil.New(9), 10)
	require.NoError(t, err)

	want := r.View().PlayerHand
	v := r.View()
	v.PlayerHand[0] = deck.Card{}
	assert.Equal(t, want, r.View().PlayerHand)
}

func TestRoundConcurrentActions(t *testing.T) {
	r, err := NewRound(randutil.New(11), 10, WithPolicy(alwaysMatch), WithJudge(playerWins))
	require.NoError(t, err)
	total := r.State().Total()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Act(Raise)
			_, _ = r.ToggleBlind()
		}()
	}
	wg.Wait()

	assert.Equal(t, total, r.State().Total())
}
