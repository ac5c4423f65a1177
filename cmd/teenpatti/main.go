package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/lox/teenpatti/cmd/teenpatti/shared"
	"github.com/lox/teenpatti/internal/config"
	"github.com/lox/teenpatti/internal/store"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"teenpatti.hcl" env:"TEENPATTI_CONFIG" help:"Path to the HCL config file"`
	LogLevel string `env:"TEENPATTI_LOG_LEVEL" help:"Log level, overrides the config file"`
	LogJSON  bool   `name:"log-json" env:"TEENPATTI_LOG_JSON" help:"Log as JSON"`
	Store    string `env:"TEENPATTI_STORE" help:"Path to the sqlite database, overrides the config file"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play against the house in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve games over websockets"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate a fixed strategy over many sessions"`
	Theme    ThemeCmd         `cmd:"" help:"Show or set the dark mode preference"`
	History  HistoryCmd       `cmd:"" help:"List recently completed rounds"`
}

func main() {
	// A missing .env is fine, it only fills in TEENPATTI_* variables
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("teenpatti"),
		kong.Description("Heads-up Teen Patti against a house opponent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadConfig reads the config file and applies flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.Store != "" {
		cfg.Store.Path = g.Store
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}
	return cfg, nil
}

func (g *Globals) logger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	return shared.SetupLogger(cfg.Log.Level, g.LogJSON, w)
}

func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", cfg.Store.Path, err)
	}
	return st, nil
}

func closeStore(st *store.Store, logger *log.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("Failed to close store", "error", err)
	}
}

func stderrLogger(g *Globals) (*config.Config, *log.Logger, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := g.logger(cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
