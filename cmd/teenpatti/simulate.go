package main

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/lox/teenpatti/cmd/teenpatti/shared"
	"github.com/lox/teenpatti/internal/fileutil"
	"github.com/lox/teenpatti/internal/game"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/lox/teenpatti/internal/simulator"
	"github.com/lox/teenpatti/internal/statistics"
)

// SimulateCmd measures a fixed strategy against the configured opponent
type SimulateCmd struct {
	Sessions  int    `default:"100" help:"Number of independent sessions"`
	Rounds    int    `default:"100" help:"Maximum rounds per session"`
	Strategy  string `default:"call" enum:"fold,call,raise,show" help:"Player strategy: fold, call, raise, show"`
	MaxRaises int    `default:"1" help:"Raises before asking for a show (raise strategy)"`
	Seen      bool   `help:"Look at the cards before acting"`
	Seed      *int64 `help:"RNG seed (optional)"`
	Workers   int    `help:"Parallel sessions (default: number of CPUs)"`
	Output    string `short:"o" type:"path" help:"Also write the results as JSON to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, logger, err := stderrLogger(g)
	if err != nil {
		return err
	}

	strategy, err := simulator.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}

	ctx, stop := shared.SetupSignalHandler(context.Background(), logger)
	defer stop()

	seed := randutil.Seed(c.Seed)
	fmt.Printf("Starting simulation: %d sessions x %d rounds, %s strategy (seed: %d)\n",
		c.Sessions, c.Rounds, strategy, seed)

	sim := simulator.New(simulator.Config{
		Sessions:  c.Sessions,
		Rounds:    c.Rounds,
		Strategy:  strategy,
		MaxRaises: c.MaxRaises,
		Seen:      c.Seen,
		Seed:      seed,
		Workers:   c.Workers,
		SessionOptions: func(rng *rand.Rand) []game.SessionOption {
			return cfg.SessionOptions(rng)
		},
		Logger: logger,
	})

	start := time.Now()
	result, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	printResults(result, time.Since(start))

	if c.Output != "" {
		if err := fileutil.WriteJSONAtomic(c.Output, result.Report(seed)); err != nil {
			return err
		}
		logger.Info("Wrote results", "path", c.Output)
	}
	return nil
}

func printResults(result *simulator.Result, duration time.Duration) {
	stats := result.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Printf("\n=== FINAL RESULTS: %s strategy ===\n", result.Strategy)
	fmt.Printf("Sessions: %d (%d ended early)\n", result.Sessions, result.Ended)
	fmt.Printf("Rounds played: %d\n", stats.Rounds)
	fmt.Printf("Total time: %v\n", duration.Round(time.Millisecond))
	if secs := duration.Seconds(); secs > 0 {
		fmt.Printf("Performance: %.1f rounds/sec\n", float64(stats.Rounds)/secs)
	}

	fmt.Printf("\n=== STATISTICAL RESULTS ===\n")
	fmt.Printf("Win rate: %.1f%%\n", stats.WinRate()*100)
	fmt.Printf("Net chips: %+.0f total\n", stats.Sum)
	fmt.Printf("Mean: %.3f chips/round\n", stats.Mean())
	fmt.Printf("Median: %.3f chips/round\n", stats.Median())
	fmt.Printf("Std Dev: %.3f chips\n", stats.StdDev())
	fmt.Printf("95%% CI: [%.3f, %.3f] chips/round\n", low, high)
	fmt.Printf("Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	printProfitSources(stats)
}

func printProfitSources(stats *statistics.Statistics) {
	fmt.Printf("\n=== PROFIT SOURCE ANALYSIS ===\n")
	fmt.Printf("Showdowns: %d rounds (%.1f%%), %d won\n",
		stats.ShowdownRounds, stats.ShowdownShare()*100, stats.ShowdownWins)
	fmt.Printf("Opponent folds: %d rounds won\n", stats.FoldWins)
	fmt.Printf("Showdown net: %+.0f chips, fold net: %+.0f chips\n", stats.ShowdownNet, stats.FoldNet)
	fmt.Printf("Largest pot: %d chips\n", stats.MaxPot)
	if !stats.IsLedgerBalanced() {
		fmt.Printf("LEDGER MISMATCH! all=%.0f showdown=%.0f fold=%.0f\n",
			stats.AllNet, stats.ShowdownNet, stats.FoldNet)
	}
}
