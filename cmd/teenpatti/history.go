package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lox/teenpatti/internal/deck"
	"github.com/lox/teenpatti/internal/roundid"
	"github.com/lox/teenpatti/internal/store"
)

// HistoryCmd lists stored rounds
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of rounds to show"`
}

func (c *HistoryCmd) Run(g *Globals) error {
	cfg, logger, err := stderrLogger(g)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	rounds, err := st.Recent(ctx, c.Limit)
	if err != nil {
		return err
	}
	summary, err := st.Summarize(ctx)
	if err != nil {
		return err
	}

	if len(rounds) == 0 {
		fmt.Println("No rounds played yet.")
		return nil
	}

	for _, r := range rounds {
		fmt.Println(formatRound(r))
	}
	fmt.Printf("\n%d rounds, %d won, %d showdowns, net %+d chips\n",
		summary.Rounds, summary.PlayerWon, summary.Showdowns, summary.PlayerNet)
	return nil
}

func formatRound(r store.Round) string {
	show := ""
	if r.Showdown {
		show = " showdown"
	}
	line := fmt.Sprintf("%s  %s  boot %-3d pot %-4d %-8s%s  %s vs %s  net %+d",
		r.FinishedAt.Format("2006-01-02 15:04:05"),
		r.ID,
		r.Boot,
		r.Pot,
		r.Winner,
		show,
		cardList(r.PlayerHand),
		cardList(r.OpponentHand),
		r.PlayerNet)
	if d, ok := roundDuration(r); ok {
		line += "  in " + d.String()
	}
	return line
}

// roundDuration measures a round from the start time embedded in its ID
func roundDuration(r store.Round) (time.Duration, bool) {
	started, err := roundid.Time(r.ID)
	if err != nil || r.FinishedAt.Before(started) {
		return 0, false
	}
	return r.FinishedAt.Sub(started).Round(time.Second), true
}

func cardList(cards []deck.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
