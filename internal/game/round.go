package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/teenpatti/internal/deck"
)

// RoundOption configures a Round during creation.
type RoundOption func(*roundConfig)

type roundConfig struct {
	id            string
	playerChips   int
	opponentChips int
	deck          *deck.Deck
	policy        Policy
	judge         Judge
	logger        *log.Logger
}

// WithRoundID sets the identifier reported in views and outcomes
func WithRoundID(id string) RoundOption {
	return func(c *roundConfig) {
		c.id = id
	}
}

// WithStacks sets both chip balances before the boot is collected.
// Default is DefaultStartingChips each.
func WithStacks(player, opponent int) RoundOption {
	return func(c *roundConfig) {
		c.playerChips = player
		c.opponentChips = opponent
	}
}

// WithDeck sets a specific deck. This overrides the RNG for dealing.
func WithDeck(d *deck.Deck) RoundOption {
	return func(c *roundConfig) {
		c.deck = d
	}
}

// WithPolicy sets the opponent policy
func WithPolicy(p Policy) RoundOption {
	return func(c *roundConfig) {
		c.policy = p
	}
}

// WithJudge sets the showdown judge
func WithJudge(j Judge) RoundOption {
	return func(c *roundConfig) {
		c.judge = j
	}
}

// WithRoundLogger sets the logger
func WithRoundLogger(l *log.Logger) RoundOption {
	return func(c *roundConfig) {
		c.logger = l
	}
}

// Round is the single-writer aggregate around a RoundState. All methods are
// safe for concurrent use; each action runs to completion before the next.
type Round struct {
	mu     sync.Mutex
	state  RoundState
	policy Policy
	judge  Judge
	logger *log.Logger
}

// NewRound deals a round and collects the boot from both sides.
// The RNG is required and backs every default that is not overridden.
func NewRound(rng *rand.Rand, boot int, opts ...RoundOption) (*Round, error) {
	if rng == nil {
		panic("rng is required for round creation")
	}

	cfg := &roundConfig{
		playerChips:   DefaultStartingChips,
		opponentChips: DefaultStartingChips,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := ValidateBoot(boot); err != nil {
		return nil, err
	}
	if cfg.playerChips < boot {
		return nil, fmt.Errorf("%w: player cannot post boot %d with %d", ErrInsufficientChips, boot, cfg.playerChips)
	}
	if cfg.opponentChips < boot {
		return nil, fmt.Errorf("%w: opponent cannot post boot %d with %d", ErrInsufficientChips, boot, cfg.opponentChips)
	}

	if cfg.deck == nil {
		cfg.deck = deck.NewDeck(rng)
	}
	if cfg.policy == nil {
		cfg.policy = NewProbabilityPolicy(rng, DefaultFoldOnCall, DefaultFoldOnRaise)
	}
	if cfg.judge == nil {
		cfg.judge = NewCoinFlipJudge(rng)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}

	playerHand, opponentHand, ok := cfg.deck.DealHands()
	if !ok {
		return nil, fmt.Errorf("%w: deck has %d cards, need %d", ErrInvalidConfiguration, cfg.deck.CardsRemaining(), 2*deck.HandSize)
	}

	r := &Round{
		state: RoundState{
			ID:            cfg.id,
			Boot:          boot,
			Pot:           2 * boot,
			CurrentBet:    boot,
			PlayerChips:   cfg.playerChips - boot,
			OpponentChips: cfg.opponentChips - boot,
			IsBlind:       true,
			State:         Betting,
			PlayerHand:    playerHand,
			OpponentHand:  opponentHand,
		},
		policy: cfg.policy,
		judge:  cfg.judge,
		logger: cfg.logger.WithPrefix("round"),
	}

	r.logger.Debug("Dealt round", "id", cfg.id, "boot", boot, "pot", r.state.Pot, "hand", playerHand)
	return r, nil
}

// Act applies a player action
func (r *Round) Act(action Action) (RoundOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, effects, err := Apply(r.state, action, r.policy, r.judge)
	if err != nil {
		r.logger.Debug("Rejected action", "id", r.state.ID, "action", action, "error", err)
		return RoundOutcome{}, err
	}

	if next.Total() != r.state.Total() {
		// Apply guarantees this; a failure here is a programming error.
		panic(fmt.Sprintf("chip total changed from %d to %d on %s", r.state.Total(), next.Total(), action))
	}

	r.state = next
	r.logger.Debug("Applied action",
		"id", next.ID,
		"action", action,
		"state", next.State,
		"pot", next.Pot,
		"currentBet", next.CurrentBet,
		"effects", len(effects))

	return newRoundOutcome(action, next, effects), nil
}

// ToggleBlind flips the blind flag and returns the new value
func (r *Round) ToggleBlind() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := ToggleBlind(r.state)
	if err != nil {
		return r.state.IsBlind, err
	}
	r.state = next
	return next.IsBlind, nil
}

// State returns a copy of the current round state
func (r *Round) State() RoundState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// View returns the presentation projection of the round
func (r *Round) View() RoundView {
	return NewRoundView(r.State())
}

// IsComplete reports whether the round has reached GameOver
func (r *Round) IsComplete() bool {
	return r.State().State == GameOver
}
