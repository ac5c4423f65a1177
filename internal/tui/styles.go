package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds every style the table view uses
type Theme struct {
	Header     lipgloss.Style
	Log        lipgloss.Style
	HandInfo   lipgloss.Style
	Actions    lipgloss.Style
	RedCard    lipgloss.Style
	BlackCard  lipgloss.Style
	HiddenCard lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Info       lipgloss.Style
	Border     lipgloss.Color
	Focus      lipgloss.Color
}

// DarkTheme suits dark terminal backgrounds
var DarkTheme = Theme{
	Header: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Bold(true).
		Padding(0, 1),
	Log: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")),
	HandInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#96CEB4")).
		Bold(true),
	Actions: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true),
	RedCard: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true),
	BlackCard: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Bold(true),
	HiddenCard: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#96CEB4")).
		Bold(true),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFEAA7")).
		Bold(true),
	Info: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")),
	Border: lipgloss.Color("#626262"),
	Focus:  lipgloss.Color("#04B575"),
}

// LightTheme suits light terminal backgrounds
var LightTheme = Theme{
	Header: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#5A3FC0")).
		Bold(true).
		Padding(0, 1),
	Log: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1A1A1A")),
	HandInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2E7D5B")).
		Bold(true),
	Actions: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#B8860B")).
		Bold(true),
	RedCard: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#C62828")).
		Bold(true),
	BlackCard: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Bold(true),
	HiddenCard: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9E9E9E")),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2E7D5B")).
		Bold(true),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#C62828")).
		Bold(true),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#A66B00")).
		Bold(true),
	Info: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#757575")),
	Border: lipgloss.Color("#BDBDBD"),
	Focus:  lipgloss.Color("#2E7D5B"),
}

// ThemeFor picks the theme for a dark mode setting
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

// DetectDarkMode reports whether the terminal background is dark. Used when
// no preference has been stored yet.
func DetectDarkMode() bool {
	return termenv.HasDarkBackground()
}
