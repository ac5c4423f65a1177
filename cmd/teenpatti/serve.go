package main

import (
	"context"

	"github.com/lox/teenpatti/cmd/teenpatti/shared"
	"github.com/lox/teenpatti/internal/game"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/lox/teenpatti/internal/roundid"
	"github.com/lox/teenpatti/internal/server"
)

// ServeCmd plays sessions over websockets
type ServeCmd struct {
	Addr      string `help:"Listen address, overrides the config file"`
	Seed      *int64 `help:"Deterministic RNG seed for the server (optional)"`
	NoMetrics bool   `help:"Do not serve /metrics"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := stderrLogger(g)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}

	ctx, stop := shared.SetupSignalHandler(context.Background(), logger)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	seed := randutil.Seed(c.Seed)
	ids := roundid.NewGenerator(nil, nil)
	recorder := st.Recorder(context.Background())

	// Each connection gets its own stream so sessions replay independently
	factory := func(connID uint64, extra ...game.SessionOption) (*game.Session, error) {
		rng := randutil.New(randutil.Derive(seed, int(connID)))
		opts := append(cfg.SessionOptions(rng),
			game.WithIDGenerator(ids),
			game.WithRecorder(recorder),
		)
		return game.NewSession(rng, append(opts, extra...)...)
	}

	var opts []server.Option
	if c.NoMetrics || !cfg.Server.Metrics {
		opts = append(opts, server.WithoutMetrics())
	}
	srv := server.NewServer(logger, factory, opts...)

	logger.Info("Starting Teen Patti server",
		"address", cfg.Server.Address,
		"seed", seed,
		"boot", cfg.Session.Boot,
		"startingChips", cfg.Session.StartingChips,
		"showdown", cfg.Showdown.Mode,
		"metrics", cfg.Server.Metrics && !c.NoMetrics)

	return srv.ListenAndServe(ctx, cfg.Server.Address)
}
