// Package simulator plays many seeded sessions with a fixed player strategy to
// measure how it fares against the house opponent.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lox/teenpatti/internal/game"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/lox/teenpatti/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Strategy is the fixed line the simulated player takes every round
type Strategy string

const (
	StrategyFold  Strategy = "fold"
	StrategyCall  Strategy = "call"
	StrategyRaise Strategy = "raise"
	StrategyShow  Strategy = "show"
)

// Strategies lists every supported strategy
var Strategies = []Strategy{StrategyFold, StrategyCall, StrategyRaise, StrategyShow}

// ParseStrategy resolves a strategy name
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Config holds configuration for running simulations
type Config struct {
	Sessions  int
	Rounds    int // upper bound per session, a session stops early if a stack runs dry
	Strategy  Strategy
	MaxRaises int  // raises before asking for a show, raise strategy only
	Seen      bool // look at the cards before acting
	Seed      int64
	Workers   int

	// SessionOptions builds the options for each session from its own RNG
	SessionOptions func(rng *rand.Rand) []game.SessionOption
	Logger         *log.Logger
}

// Result summarises a simulation run
type Result struct {
	Strategy Strategy
	Sessions int
	Ended    int // sessions stopped early because a stack could not cover the boot
	Stats    *statistics.Statistics
}

// Simulator runs Teen Patti session simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.MaxRaises <= 0 {
		config.MaxRaises = 1
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// Run plays every session and merges their statistics. Sessions run in
// parallel, each on its own derived seed, so results depend only on Seed.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.config.Sessions <= 0 || s.config.Rounds <= 0 {
		return nil, fmt.Errorf("sessions and rounds must be positive, got %d and %d", s.config.Sessions, s.config.Rounds)
	}
	if _, err := ParseStrategy(string(s.config.Strategy)); err != nil {
		return nil, err
	}

	s.logger.Info("Starting simulation",
		"sessions", s.config.Sessions,
		"rounds", s.config.Rounds,
		"strategy", s.config.Strategy,
		"seed", s.config.Seed,
		"workers", s.config.Workers)

	perSession := make([]*statistics.Statistics, s.config.Sessions)
	ended := make([]bool, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Sessions {
		g.Go(func() error {
			stats, stopped, err := s.playSession(ctx, i)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			perSession[i] = stats
			ended[i] = stopped
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Strategy: s.config.Strategy,
		Sessions: s.config.Sessions,
		Stats:    &statistics.Statistics{},
	}
	for i, stats := range perSession {
		result.Stats.Merge(stats)
		if ended[i] {
			result.Ended++
		}
	}

	if err := result.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete",
		"rounds", result.Stats.Rounds,
		"winRate", result.Stats.WinRate(),
		"mean", result.Stats.Mean(),
		"ended", result.Ended)
	return result, nil
}

// playSession plays up to Rounds rounds on a fresh session. It reports whether
// the session stopped early.
func (s *Simulator) playSession(ctx context.Context, index int) (*statistics.Statistics, bool, error) {
	rng := randutil.New(randutil.Derive(s.config.Seed, index))
	stats := &statistics.Statistics{}

	var opts []game.SessionOption
	if s.config.SessionOptions != nil {
		opts = s.config.SessionOptions(rng)
	}
	opts = append(opts,
		game.WithLogger(s.logger),
		game.WithMaxHistory(1),
		game.WithRecorder(game.RecorderFunc(func(r game.RoundResult) {
			stats.Add(statistics.Round{
				Net:      r.PlayerNet,
				Showdown: r.Showdown,
				Pot:      r.Pot,
				Won:      r.Winner == game.Player,
			})
		})),
	)

	session, err := game.NewSession(rng, opts...)
	if err != nil {
		return nil, false, err
	}

	for range s.config.Rounds {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		if _, err := session.StartRound(); err != nil {
			if errors.Is(err, game.ErrInsufficientChips) {
				player, opponent := session.Balances()
				s.logger.Debug("Session ended early",
					"session", index,
					"rounds", session.RoundsPlayed(),
					"playerChips", player,
					"opponentChips", opponent)
				return stats, true, nil
			}
			return nil, false, err
		}

		if err := s.playRound(session); err != nil {
			return nil, false, err
		}
	}
	return stats, false, nil
}

func (s *Simulator) playRound(session *game.Session) error {
	if s.config.Seen {
		if _, err := session.ToggleBlind(); err != nil {
			return err
		}
	}

	raises := 0
	for session.InProgress() {
		action := s.nextAction(raises)
		_, err := session.Act(action)
		switch {
		case err == nil:
			if action == game.Raise {
				raises++
			}
		case errors.Is(err, game.ErrInsufficientChips):
			// Someone cannot cover the bet, settle it with a show.
			if _, err := session.Act(game.Show); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}

func (s *Simulator) nextAction(raises int) game.Action {
	switch s.config.Strategy {
	case StrategyFold:
		return game.Fold
	case StrategyCall:
		return game.Call
	case StrategyRaise:
		if raises < s.config.MaxRaises {
			return game.Raise
		}
		return game.Show
	default:
		return game.Show
	}
}

// Report is the machine-readable summary of a run
type Report struct {
	Strategy      Strategy   `json:"strategy"`
	Seed          int64      `json:"seed"`
	Sessions      int        `json:"sessions"`
	Ended         int        `json:"ended"`
	Rounds        int        `json:"rounds"`
	WinRate       float64    `json:"winRate"`
	ShowdownShare float64    `json:"showdownShare"`
	NetChips      int        `json:"netChips"`
	Mean          float64    `json:"meanPerRound"`
	StdDev        float64    `json:"stdDev"`
	CI95          [2]float64 `json:"ci95"`
	MaxPot        int        `json:"maxPot"`
}

// Report summarises the result for the given seed
func (r *Result) Report(seed int64) Report {
	low, high := r.Stats.ConfidenceInterval95()
	return Report{
		Strategy:      r.Strategy,
		Seed:          seed,
		Sessions:      r.Sessions,
		Ended:         r.Ended,
		Rounds:        r.Stats.Rounds,
		WinRate:       r.Stats.WinRate(),
		ShowdownShare: r.Stats.ShowdownShare(),
		NetChips:      int(r.Stats.Sum),
		Mean:          r.Stats.Mean(),
		StdDev:        r.Stats.StdDev(),
		CI95:          [2]float64{low, high},
		MaxPot:        r.Stats.MaxPot,
	}
}
