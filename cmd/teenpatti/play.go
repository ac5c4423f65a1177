package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/teenpatti/internal/config"
	"github.com/lox/teenpatti/internal/game"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/lox/teenpatti/internal/roundid"
	"github.com/lox/teenpatti/internal/store"
	"github.com/lox/teenpatti/internal/tui"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// PlayCmd runs the terminal table
type PlayCmd struct {
	Seed  *int64 `help:"Deterministic RNG seed (optional)"`
	Boot  int    `help:"Starting boot, overrides the config file"`
	Chips int    `help:"Starting chips for both sides, overrides the config file"`
	Mode  string `help:"Game mode label to store (single or multi)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Boot != 0 {
		cfg.Session.Boot = c.Boot
	}
	if c.Chips != 0 {
		cfg.Session.StartingChips = c.Chips
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The table owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger, err := g.logger(cfg, logFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	dark, err := st.GetBool(ctx, store.PrefDarkMode, tui.DetectDarkMode())
	if err != nil {
		return err
	}

	mode := cfg.Session.Mode
	switch c.Mode {
	case "", config.ModeSingle, config.ModeMulti:
	default:
		return fmt.Errorf("unknown game mode %q, want single or multi", c.Mode)
	}
	if c.Mode != "" {
		if err := st.Set(ctx, store.PrefGameMode, c.Mode); err != nil {
			return err
		}
		mode = c.Mode
	} else if stored, ok, err := st.Get(ctx, store.PrefGameMode); err != nil {
		return err
	} else if ok {
		mode = stored
	}

	seed := randutil.Seed(c.Seed)
	rng := randutil.New(seed)
	logger.Info("Starting table", "seed", seed, "boot", cfg.Session.Boot, "mode", mode, "showdown", cfg.Showdown.Mode)

	opts := append(cfg.SessionOptions(rng),
		game.WithLogger(logger),
		game.WithIDGenerator(roundid.NewGenerator(nil, randutil.New(randutil.Derive(seed, 1)))),
		game.WithRecorder(st.Recorder(ctx)),
	)
	session, err := game.NewSession(rng, opts...)
	if err != nil {
		return err
	}

	model := tui.NewModel(session, logger,
		tui.WithPreferences(st, store.PrefDarkMode),
		tui.WithDarkMode(dark),
		tui.WithGameMode(mode),
	)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("table exited: %w", err)
	}

	player, opponent := session.Balances()
	fmt.Println(titleStyle.Render(" Teen Patti "))
	fmt.Printf("Rounds played: %d\n", session.RoundsPlayed())
	fmt.Printf("Final chips: you %d, opponent %d\n", player, opponent)
	return nil
}
