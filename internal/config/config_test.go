package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/teenpatti/internal/game"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teenpatti.hcl")
	src := `
session {
  boot           = 50
  starting_chips = 2000
  mode           = "multi"
}

opponent {
  fold_on_call  = 0
  fold_on_raise = 0.75
}

showdown {
  mode = "ranked"
}

server {
  address = "0.0.0.0:9000"
  metrics = false
}

store {
  path = "/tmp/tp.db"
}

log {
  level = "debug"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50, cfg.Session.Boot)
	assert.Equal(t, 2000, cfg.Session.StartingChips)
	assert.Equal(t, ModeMulti, cfg.Session.Mode)
	assert.Equal(t, 0.0, cfg.Opponent.FoldOnCall)
	assert.Equal(t, 0.75, cfg.Opponent.FoldOnRaise)
	assert.Equal(t, ShowdownRanked, cfg.Showdown.Mode)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Address)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, "/tmp/tp.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "teenpatti.log", cfg.Log.File)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`server { address = ":7000" }`), "partial.hcl")
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, game.DefaultBoot, cfg.Session.Boot)
	assert.Equal(t, game.DefaultFoldOnCall, cfg.Opponent.FoldOnCall)
	assert.Equal(t, ShowdownCoinFlip, cfg.Showdown.Mode)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`session {`), "broken.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`session { seats = 4 }`), "unknown.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"boot off step", func(c *Config) { c.Session.Boot = 15 }},
		{"boot too high", func(c *Config) { c.Session.Boot = 200 }},
		{"chips below boot", func(c *Config) { c.Session.StartingChips = 5 }},
		{"unknown game mode", func(c *Config) { c.Session.Mode = "tournament" }},
		{"negative fold probability", func(c *Config) { c.Opponent.FoldOnCall = -0.1 }},
		{"fold probability above one", func(c *Config) { c.Opponent.FoldOnRaise = 1.5 }},
		{"unknown showdown mode", func(c *Config) { c.Showdown.Mode = "highcard" }},
		{"empty address", func(c *Config) { c.Server.Address = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), game.ErrInvalidConfiguration)
		})
	}
}

func TestJudgeSelection(t *testing.T) {
	cfg := Default()
	assert.IsType(t, &game.CoinFlipJudge{}, cfg.Judge(randutil.New(1)))

	cfg.Showdown.Mode = ShowdownRanked
	assert.IsType(t, &game.HandRankJudge{}, cfg.Judge(randutil.New(1)))
}

func TestSessionOptions(t *testing.T) {
	cfg := Default()
	cfg.Session.Boot = 30
	cfg.Session.StartingChips = 300

	rng := randutil.New(4)
	s, err := game.NewSession(rng, cfg.SessionOptions(rng)...)
	require.NoError(t, err)
	assert.Equal(t, 30, s.BootAmount())

	player, opponent := s.Balances()
	assert.Equal(t, 300, player)
	assert.Equal(t, 300, opponent)
}
