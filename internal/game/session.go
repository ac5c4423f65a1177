package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/teenpatti/internal/deck"
)

// IDGenerator names rounds
type IDGenerator interface {
	Generate() string
}

// RoundResult summarises a completed round
type RoundResult struct {
	ID            string
	Boot          int
	Pot           int // amount paid to the winner
	Winner        Participant
	Showdown      bool
	Message       string
	Actions       []Action
	PlayerHand    []deck.Card
	OpponentHand  []deck.Card
	PlayerChips   int
	OpponentChips int
	PlayerNet     int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// RoundRecorder is notified after every completed round
type RoundRecorder interface {
	RecordRound(RoundResult)
}

// RecorderFunc adapts a function to RoundRecorder
type RecorderFunc func(RoundResult)

// RecordRound implements RoundRecorder
func (f RecorderFunc) RecordRound(r RoundResult) {
	f(r)
}

// SessionOption configures a Session during creation.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	boot          int
	playerChips   int
	opponentChips int
	policy        Policy
	judge         Judge
	logger        *log.Logger
	clock         quartz.Clock
	ids           IDGenerator
	recorders     []RoundRecorder
	maxHistory    int
}

// WithBoot sets the initial boot amount. Default is DefaultBoot.
func WithBoot(boot int) SessionOption {
	return func(c *sessionConfig) {
		c.boot = boot
	}
}

// WithStartingChips gives both sides the same balance. Default is DefaultStartingChips.
func WithStartingChips(chips int) SessionOption {
	return func(c *sessionConfig) {
		c.playerChips = chips
		c.opponentChips = chips
	}
}

// WithBalances resumes a session with individual balances
func WithBalances(player, opponent int) SessionOption {
	return func(c *sessionConfig) {
		c.playerChips = player
		c.opponentChips = opponent
	}
}

// WithSessionPolicy sets the opponent policy used for every round
func WithSessionPolicy(p Policy) SessionOption {
	return func(c *sessionConfig) {
		c.policy = p
	}
}

// WithSessionJudge sets the showdown judge used for every round
func WithSessionJudge(j Judge) SessionOption {
	return func(c *sessionConfig) {
		c.judge = j
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) SessionOption {
	return func(c *sessionConfig) {
		c.logger = l
	}
}

// WithClock sets the clock used for round timestamps
func WithClock(clock quartz.Clock) SessionOption {
	return func(c *sessionConfig) {
		c.clock = clock
	}
}

// WithIDGenerator sets how rounds are named
func WithIDGenerator(g IDGenerator) SessionOption {
	return func(c *sessionConfig) {
		c.ids = g
	}
}

// WithRecorder adds a recorder notified of completed rounds
func WithRecorder(r RoundRecorder) SessionOption {
	return func(c *sessionConfig) {
		c.recorders = append(c.recorders, r)
	}
}

// WithMaxHistory bounds the in-memory history. Default is 100 rounds.
func WithMaxHistory(n int) SessionOption {
	return func(c *sessionConfig) {
		c.maxHistory = n
	}
}

// Session sequences rounds and carries balances and the boot amount between
// them. It is the only writer of those balances: a round's final chips are
// copied back when it reaches GameOver.
type Session struct {
	mu  sync.Mutex
	rng *rand.Rand
	cfg *sessionConfig

	boot          int
	playerChips   int
	opponentChips int

	round      *Round
	startChips int
	startedAt  time.Time
	actions    []Action
	history    []RoundResult
	rounds     int
}

// NewSession creates a session. The RNG is required and drives dealing as well
// as the default policy and judge.
func NewSession(rng *rand.Rand, opts ...SessionOption) (*Session, error) {
	if rng == nil {
		panic("rng is required for session creation")
	}

	cfg := &sessionConfig{
		boot:          DefaultBoot,
		playerChips:   DefaultStartingChips,
		opponentChips: DefaultStartingChips,
		maxHistory:    100,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := ValidateBoot(cfg.boot); err != nil {
		return nil, err
	}
	if cfg.playerChips < 0 || cfg.opponentChips < 0 {
		return nil, fmt.Errorf("%w: balances must not be negative", ErrInvalidConfiguration)
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
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	cfg.logger = cfg.logger.WithPrefix("session")

	return &Session{
		rng:           rng,
		cfg:           cfg,
		boot:          cfg.boot,
		playerChips:   cfg.playerChips,
		opponentChips: cfg.opponentChips,
	}, nil
}

// SetBootAmount changes the boot for the next round. It is accepted only for a
// valid amount and only while no round is in progress.
func (s *Session) SetBootAmount(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inProgress() {
		s.cfg.logger.Debug("Boot change rejected during round", "boot", n)
		return false
	}
	if err := ValidateBoot(n); err != nil {
		s.cfg.logger.Debug("Boot change rejected", "boot", n, "error", err)
		return false
	}
	s.boot = n
	return true
}

// BootAmount returns the boot used for the next round
func (s *Session) BootAmount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boot
}

// StartRound deals a new round with the current boot
func (s *Session) StartRound() (RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inProgress() {
		return RoundView{}, fmt.Errorf("%w: a round is already in progress", ErrInvalidAction)
	}

	opts := []RoundOption{
		WithStacks(s.playerChips, s.opponentChips),
		WithDeck(deck.NewDeck(s.rng)),
		WithPolicy(s.cfg.policy),
		WithJudge(s.cfg.judge),
		WithRoundLogger(s.cfg.logger),
	}
	if s.cfg.ids != nil {
		opts = append(opts, WithRoundID(s.cfg.ids.Generate()))
	}

	r, err := NewRound(s.rng, s.boot, opts...)
	if err != nil {
		return RoundView{}, err
	}

	s.round = r
	s.startChips = s.playerChips
	s.startedAt = s.cfg.clock.Now()
	s.actions = s.actions[:0]
	s.rounds++

	view := r.View()
	s.cfg.logger.Info("Round started",
		"id", view.ID,
		"number", s.rounds,
		"boot", s.boot,
		"playerChips", view.PlayerChips,
		"opponentChips", view.OpponentChips)
	return view, nil
}

// Act applies a player action to the current round
func (s *Session) Act(action Action) (RoundOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return RoundOutcome{}, fmt.Errorf("%w: no round has been dealt", ErrInvalidAction)
	}

	outcome, err := s.round.Act(action)
	if err != nil {
		return RoundOutcome{}, err
	}
	s.actions = append(s.actions, action)

	if s.round.IsComplete() {
		s.onRoundComplete(outcome.Payout)
	}
	return outcome, nil
}

// ToggleBlind flips blind play for the current round
func (s *Session) ToggleBlind() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return false, fmt.Errorf("%w: no round has been dealt", ErrInvalidAction)
	}
	return s.round.ToggleBlind()
}

// View returns the current round, or false before the first deal
func (s *Session) View() (RoundView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return RoundView{}, false
	}
	return s.round.View(), true
}

// Balances returns the live chip balances, including an unfinished round
func (s *Session) Balances() (player, opponent int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inProgress() {
		st := s.round.State()
		return st.PlayerChips, st.OpponentChips
	}
	return s.playerChips, s.opponentChips
}

// InProgress reports whether a round is waiting for player actions
func (s *Session) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress()
}

// RoundsPlayed returns how many rounds have been dealt
func (s *Session) RoundsPlayed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

// History returns completed rounds, oldest first
func (s *Session) History() []RoundResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RoundResult(nil), s.history...)
}

func (s *Session) inProgress() bool {
	return s.round != nil && !s.round.IsComplete()
}

// onRoundComplete copies the final balances back and records the result. The
// pot has already been paid out by the round.
func (s *Session) onRoundComplete(payout int) {
	st := s.round.State()
	s.playerChips = st.PlayerChips
	s.opponentChips = st.OpponentChips

	result := RoundResult{
		ID:            st.ID,
		Boot:          st.Boot,
		Pot:           payout,
		Winner:        st.Winner,
		Showdown:      st.WentToShow,
		Message:       st.Message,
		Actions:       append([]Action(nil), s.actions...),
		PlayerHand:    st.PlayerHand,
		OpponentHand:  st.OpponentHand,
		PlayerChips:   st.PlayerChips,
		OpponentChips: st.OpponentChips,
		PlayerNet:     st.PlayerChips - s.startChips,
		StartedAt:     s.startedAt,
		FinishedAt:    s.cfg.clock.Now(),
	}

	s.history = append(s.history, result)
	if over := len(s.history) - s.cfg.maxHistory; s.cfg.maxHistory > 0 && over > 0 {
		s.history = s.history[over:]
	}

	s.cfg.logger.Info("Round complete",
		"id", result.ID,
		"winner", result.Winner,
		"showdown", result.Showdown,
		"pot", result.Pot,
		"playerChips", result.PlayerChips,
		"opponentChips", result.OpponentChips)

	for _, rec := range s.cfg.recorders {
		rec.RecordRound(result)
	}
}
