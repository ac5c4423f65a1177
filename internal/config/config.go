// Package config loads the teenpatti HCL configuration file.
package config

import (
	"fmt"
	rand "math/rand/v2"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/teenpatti/internal/game"
)

// Showdown modes
const (
	ShowdownCoinFlip = "coinflip"
	ShowdownRanked   = "ranked"
)

// Game mode labels
const (
	ModeSingle = "single"
	ModeMulti  = "multi"
)

// Config is the complete teenpatti configuration
type Config struct {
	Session  SessionSettings
	Opponent OpponentSettings
	Showdown ShowdownSettings
	Server   ServerSettings
	Store    StoreSettings
	Log      LogSettings
}

// SessionSettings controls chips and stakes
type SessionSettings struct {
	Boot          int    `hcl:"boot,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	Mode          string `hcl:"mode,optional"`
}

// OpponentSettings holds the fold probabilities of the random opponent
type OpponentSettings struct {
	FoldOnCall  float64
	FoldOnRaise float64
}

// ShowdownSettings picks how a showdown is decided
type ShowdownSettings struct {
	Mode string `hcl:"mode,optional"`
}

// ServerSettings configures the websocket server
type ServerSettings struct {
	Address string
	Metrics bool
}

// StoreSettings locates the sqlite database
type StoreSettings struct {
	Path string `hcl:"path,optional"`
}

// LogSettings configures logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// fileConfig mirrors the file layout. Every block is optional.
type fileConfig struct {
	Session  *SessionSettings  `hcl:"session,block"`
	Opponent *opponentBlock    `hcl:"opponent,block"`
	Showdown *ShowdownSettings `hcl:"showdown,block"`
	Server   *serverBlock      `hcl:"server,block"`
	Store    *StoreSettings    `hcl:"store,block"`
	Log      *LogSettings      `hcl:"log,block"`
}

type serverBlock struct {
	Address string `hcl:"address,optional"`
	Metrics *bool  `hcl:"metrics,optional"`
}

// opponentBlock uses pointers because zero is a meaningful probability
type opponentBlock struct {
	FoldOnCall  *float64 `hcl:"fold_on_call,optional"`
	FoldOnRaise *float64 `hcl:"fold_on_raise,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Session: SessionSettings{
			Boot:          game.DefaultBoot,
			StartingChips: game.DefaultStartingChips,
			Mode:          ModeSingle,
		},
		Opponent: OpponentSettings{
			FoldOnCall:  game.DefaultFoldOnCall,
			FoldOnRaise: game.DefaultFoldOnRaise,
		},
		Showdown: ShowdownSettings{
			Mode: ShowdownCoinFlip,
		},
		Server: ServerSettings{
			Address: "localhost:8080",
			Metrics: true,
		},
		Store: StoreSettings{
			Path: "teenpatti.db",
		},
		Log: LogSettings{
			Level: "info",
			File:  "teenpatti.log",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse reads configuration from HCL source
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if b := fc.Session; b != nil {
		if b.Boot != 0 {
			cfg.Session.Boot = b.Boot
		}
		if b.StartingChips != 0 {
			cfg.Session.StartingChips = b.StartingChips
		}
		if b.Mode != "" {
			cfg.Session.Mode = b.Mode
		}
	}
	if b := fc.Opponent; b != nil {
		if b.FoldOnCall != nil {
			cfg.Opponent.FoldOnCall = *b.FoldOnCall
		}
		if b.FoldOnRaise != nil {
			cfg.Opponent.FoldOnRaise = *b.FoldOnRaise
		}
	}
	if b := fc.Showdown; b != nil && b.Mode != "" {
		cfg.Showdown.Mode = b.Mode
	}
	if b := fc.Server; b != nil {
		if b.Address != "" {
			cfg.Server.Address = b.Address
		}
		if b.Metrics != nil {
			cfg.Server.Metrics = *b.Metrics
		}
	}
	if b := fc.Store; b != nil && b.Path != "" {
		cfg.Store.Path = b.Path
	}
	if b := fc.Log; b != nil {
		if b.Level != "" {
			cfg.Log.Level = b.Level
		}
		if b.File != "" {
			cfg.Log.File = b.File
		}
	}
	return cfg, nil
}

// Validate checks the configuration. Failures wrap game.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if err := game.ValidateBoot(c.Session.Boot); err != nil {
		return err
	}
	if c.Session.StartingChips < c.Session.Boot {
		return fmt.Errorf("%w: starting chips %d cannot cover boot %d",
			game.ErrInvalidConfiguration, c.Session.StartingChips, c.Session.Boot)
	}
	switch c.Session.Mode {
	case ModeSingle, ModeMulti:
	default:
		return fmt.Errorf("%w: invalid game mode %q", game.ErrInvalidConfiguration, c.Session.Mode)
	}

	for name, p := range map[string]float64{
		"fold_on_call":  c.Opponent.FoldOnCall,
		"fold_on_raise": c.Opponent.FoldOnRaise,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %v", game.ErrInvalidConfiguration, name, p)
		}
	}

	switch c.Showdown.Mode {
	case ShowdownCoinFlip, ShowdownRanked:
	default:
		return fmt.Errorf("%w: invalid showdown mode %q", game.ErrInvalidConfiguration, c.Showdown.Mode)
	}

	if c.Server.Address == "" {
		return fmt.Errorf("%w: server address is required", game.ErrInvalidConfiguration)
	}
	return nil
}

// Policy builds the opponent policy
func (c *Config) Policy(rng *rand.Rand) game.Policy {
	return game.NewProbabilityPolicy(rng, c.Opponent.FoldOnCall, c.Opponent.FoldOnRaise)
}

// Judge builds the showdown judge
func (c *Config) Judge(rng *rand.Rand) game.Judge {
	if c.Showdown.Mode == ShowdownRanked {
		return game.NewHandRankJudge(rng)
	}
	return game.NewCoinFlipJudge(rng)
}

// SessionOptions returns the session options implied by the configuration
func (c *Config) SessionOptions(rng *rand.Rand) []game.SessionOption {
	return []game.SessionOption{
		game.WithBoot(c.Session.Boot),
		game.WithStartingChips(c.Session.StartingChips),
		game.WithSessionPolicy(c.Policy(rng)),
		game.WithSessionJudge(c.Judge(rng)),
	}
}
