package main

import (
	"context"
	"fmt"

	"github.com/lox/teenpatti/internal/store"
	"github.com/lox/teenpatti/internal/tui"
)

// ThemeCmd reads or writes the dark mode preference
type ThemeCmd struct {
	Value string `arg:"" optional:"" help:"dark or light; omit to show the current theme"`
}

func (c *ThemeCmd) Run(g *Globals) error {
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

	switch c.Value {
	case "":
		dark, err := st.GetBool(ctx, store.PrefDarkMode, tui.DetectDarkMode())
		if err != nil {
			return err
		}
		fmt.Println(themeName(dark))
		return nil
	case "dark", "light":
		if err := st.SetBool(ctx, store.PrefDarkMode, c.Value == "dark"); err != nil {
			return err
		}
		fmt.Printf("Theme set to %s\n", c.Value)
		return nil
	default:
		return fmt.Errorf("unknown theme %q, want dark or light", c.Value)
	}
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
