package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/teenpatti/internal/deck"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/lox/teenpatti/internal/roundid"
	"github.com/lox/teenpatti/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teenpatti.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
session {
  boot = 20
}
log {
  level = "warn"
}
`), 0o644))

	g := &Globals{Config: path, LogLevel: "debug", Store: filepath.Join(dir, "other.db")}
	cfg, err := g.loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Session.Boot)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "other.db"), cfg.Store.Path)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("session {\n  boot = 15\n}\n"), 0o644))

	_, err := (&Globals{Config: path}).loadConfig()
	assert.ErrorContains(t, err, "invalid config")
}

func TestFormatRound(t *testing.T) {
	r := store.Round{
		ID:           "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Boot:         10,
		Pot:          70,
		Winner:       "player",
		Showdown:     true,
		PlayerHand:   deck.MustParseCards("As Ks Qs"),
		OpponentHand: nil,
		PlayerNet:    35,
		FinishedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local),
	}

	line := formatRound(r)
	assert.Contains(t, line, "2026-01-02 03:04:05")
	assert.Contains(t, line, "showdown")
	assert.Contains(t, line, "vs -")
	assert.Contains(t, line, "net +35")
	assert.NotContains(t, line, " in ", "IDs that do not decode carry no duration")
}

func TestFormatRoundDuration(t *testing.T) {
	clock := quartz.NewMock(t)
	started := time.Date(2026, 10, 18, 20, 15, 0, 0, time.UTC)
	clock.Set(started)

	r := store.Round{
		ID:         roundid.NewGenerator(clock, randutil.New(9)).Generate(),
		Boot:       10,
		Pot:        20,
		Winner:     "opponent",
		PlayerNet:  -10,
		FinishedAt: started.Add(42 * time.Second),
	}
	assert.True(t, strings.HasSuffix(formatRound(r), "net -10  in 42s"), formatRound(r))

	r.FinishedAt = started.Add(-time.Minute)
	assert.NotContains(t, formatRound(r), " in ")
}

func TestThemeName(t *testing.T) {
	assert.Equal(t, "dark", themeName(true))
	assert.Equal(t, "light", themeName(false))
}
