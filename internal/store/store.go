// Package store persists preferences and completed rounds in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/teenpatti/internal/deck"
	"github.com/lox/teenpatti/internal/game"
	_ "modernc.org/sqlite"
)

// Preference names
const (
	PrefDarkMode = "dark_mode"
	PrefGameMode = "game_mode"
)

// Store wraps the sqlite database
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Round is a completed round as stored
type Round struct {
	ID            string
	Boot          int
	Pot           int
	Winner        string
	Showdown      bool
	Message       string
	Actions       []string
	PlayerHand    []deck.Card
	OpponentHand  []deck.Card
	PlayerChips   int
	OpponentChips int
	PlayerNet     int
	FinishedAt    time.Time
}

// Open connects to the database at dsn and creates the schema. Use
// ":memory:" for a throwaway database.
func Open(ctx context.Context, dsn string, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, logger: logger.WithPrefix("store")}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Debug("Database opened", "dsn", dsn)
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS preferences (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		boot INTEGER NOT NULL,
		pot INTEGER NOT NULL,
		winner TEXT NOT NULL,
		showdown BOOLEAN NOT NULL DEFAULT 0,
		message TEXT NOT NULL DEFAULT '',
		actions TEXT NOT NULL DEFAULT '',
		player_hand TEXT NOT NULL DEFAULT '',
		opponent_hand TEXT NOT NULL DEFAULT '',
		player_chips INTEGER NOT NULL,
		opponent_chips INTEGER NOT NULL,
		player_net INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);`)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS rounds_finished_at ON rounds (finished_at);`)
	return err
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns a preference value and whether it was set
func (s *Store) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a preference value
func (s *Store) Set(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO preferences (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value",
		name, value)
	return err
}

// GetBool returns a boolean preference, or def when it is unset
func (s *Store) GetBool(ctx context.Context, name string, def bool) (bool, error) {
	value, ok, err := s.Get(ctx, name)
	if err != nil || !ok {
		return def, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def, fmt.Errorf("preference %s: %w", name, err)
	}
	return b, nil
}

// SetBool stores a boolean preference
func (s *Store) SetBool(ctx context.Context, name string, value bool) error {
	return s.Set(ctx, name, strconv.FormatBool(value))
}

// SaveRound appends a completed round to the history
func (s *Store) SaveRound(ctx context.Context, r game.RoundResult) error {
	actions := make([]string, len(r.Actions))
	for i, a := range r.Actions {
		actions[i] = a.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rounds (id, boot, pot, winner, showdown, message, actions, player_hand, opponent_hand,
			player_chips, opponent_chips, player_net, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Boot, r.Pot, r.Winner.String(), r.Showdown, r.Message,
		strings.Join(actions, ","), formatCards(r.PlayerHand), formatCards(r.OpponentHand),
		r.PlayerChips, r.OpponentChips, r.PlayerNet, r.FinishedAt.UnixMilli())
	return err
}

// Recent returns up to limit rounds, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, boot, pot, winner, showdown, message, actions, player_hand, opponent_hand,
			player_chips, opponent_chips, player_net, finished_at
		FROM rounds ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var r Round
		var actions, player, opp string
		var finished int64
		if err := rows.Scan(&r.ID, &r.Boot, &r.Pot, &r.Winner, &r.Showdown, &r.Message, &actions,
			&player, &opp, &r.PlayerChips, &r.OpponentChips, &r.PlayerNet, &finished); err != nil {
			return nil, err
		}
		if actions != "" {
			r.Actions = strings.Split(actions, ",")
		}
		if r.PlayerHand, err = parseCards(player); err != nil {
			return nil, fmt.Errorf("round %s: %w", r.ID, err)
		}
		if r.OpponentHand, err = parseCards(opp); err != nil {
			return nil, fmt.Errorf("round %s: %w", r.ID, err)
		}
		r.FinishedAt = time.UnixMilli(finished)
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// Summary aggregates the stored history
type Summary struct {
	Rounds    int
	PlayerWon int
	Showdowns int
	PlayerNet int
}

// Summarize aggregates every stored round
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN winner = 'player' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN showdown THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(player_net), 0)
		FROM rounds`).Scan(&sum.Rounds, &sum.PlayerWon, &sum.Showdowns, &sum.PlayerNet)
	return sum, err
}

// Recorder adapts the store to a session recorder. Write failures are logged
// and do not interrupt play.
func (s *Store) Recorder(ctx context.Context) game.RecorderFunc {
	return func(r game.RoundResult) {
		if err := s.SaveRound(ctx, r); err != nil {
			s.logger.Error("Failed to save round", "id", r.ID, "error", err)
		}
	}
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.Rank.String() + suitLetter(c.Suit)
	}
	return strings.Join(parts, " ")
}

func suitLetter(s deck.Suit) string {
	switch s {
	case deck.Hearts:
		return "h"
	case deck.Diamonds:
		return "d"
	case deck.Clubs:
		return "c"
	default:
		return "s"
	}
}

func parseCards(s string) ([]deck.Card, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Fields(s)
	cards := make([]deck.Card, 0, len(fields))
	for _, f := range fields {
		c, err := deck.ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
