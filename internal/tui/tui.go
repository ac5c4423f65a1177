// Package tui is the terminal table for playing a session against the house.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/teenpatti/internal/deck"
	"github.com/lox/teenpatti/internal/game"
)

// Preferences persists the theme choice
type Preferences interface {
	SetBool(ctx context.Context, name string, value bool) error
}

// Option configures a Model
type Option func(*Model)

// WithPreferences stores theme changes in p under key
func WithPreferences(p Preferences, key string) Option {
	return func(m *Model) {
		m.prefs = p
		m.darkKey = key
	}
}

// WithDarkMode sets the starting theme
func WithDarkMode(dark bool) Option {
	return func(m *Model) {
		m.dark = dark
	}
}

// WithGameMode sets the mode label shown in the header
func WithGameMode(mode string) Option {
	return func(m *Model) {
		m.mode = mode
	}
}

// Model is the bubbletea model for the table
type Model struct {
	session *game.Session
	prefs   Preferences
	darkKey string
	logger  *log.Logger

	keys        keyMap
	help        help.Model
	logViewport viewport.Model

	gameLog  []string
	round    game.RoundView
	hasRound bool
	status   string
	isError  bool

	dark     bool
	theme    Theme
	mode     string
	width    int
	height   int
	quitting bool
}

// NewModel creates the table model for a session
func NewModel(session *game.Session, logger *log.Logger, opts ...Option) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &Model{
		session:     session,
		logger:      logger.WithPrefix("tui"),
		keys:        defaultKeyMap(),
		help:        help.New(),
		logViewport: vp,
		dark:        true,
		mode:        "single",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.theme = ThemeFor(m.dark)
	m.status = "Press n to deal a round."
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Fold):
			m.act(game.Fold)
		case key.Matches(msg, m.keys.Call):
			m.act(game.Call)
		case key.Matches(msg, m.keys.Raise):
			m.act(game.Raise)
		case key.Matches(msg, m.keys.Show):
			m.act(game.Show)
		case key.Matches(msg, m.keys.Blind):
			m.toggleBlind()
		case key.Matches(msg, m.keys.BootUp):
			m.changeBoot(game.BootStep)
		case key.Matches(msg, m.keys.BootDown):
			m.changeBoot(-game.BootStep)
		case key.Matches(msg, m.keys.Deal):
			m.deal()
		case key.Matches(msg, m.keys.Theme):
			m.toggleTheme()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.ScrollUp):
			m.logViewport.ScrollUp(1)
		case key.Matches(msg, m.keys.ScrollDn):
			m.logViewport.ScrollDown(1)
		}
	}
	return m, nil
}

func (m *Model) deal() {
	view, err := m.session.StartRound()
	if err != nil {
		m.fail(err)
		return
	}
	m.round = view
	m.hasRound = true
	m.addLog(fmt.Sprintf("*** ROUND %d *** boot %d, pot %d", m.session.RoundsPlayed(), view.Boot, view.Pot))
	m.setStatus("You are playing blind. Press b to see your cards.", false)
}

func (m *Model) act(action game.Action) {
	outcome, err := m.session.Act(action)
	if err != nil {
		m.fail(err)
		return
	}
	m.round = outcome.View

	line := "You " + actionVerb(action)
	if paid := playerPaid(outcome.Effects); paid > 0 {
		line += fmt.Sprintf(" %d", paid)
	}
	m.addLog(line)
	if outcome.Showdown {
		m.addLog("Showdown: " + m.renderCards(outcome.View.PlayerHand) + " vs " + m.renderCards(outcome.View.OpponentHand))
	}
	if outcome.Message != "" {
		m.addLog(outcome.Message)
	}

	if outcome.State == game.GameOver.String() {
		m.setStatus(fmt.Sprintf("%s Press n for the next round.", outcome.Message), false)
	} else {
		m.setStatus(outcome.Message, false)
	}
}

func (m *Model) toggleBlind() {
	blind, err := m.session.ToggleBlind()
	if err != nil {
		m.fail(err)
		return
	}
	if view, ok := m.session.View(); ok {
		m.round = view
	}
	if blind {
		m.setStatus("Playing blind: calls cost half.", false)
		return
	}
	m.addLog("You look at your cards: " + m.renderCards(m.round.PlayerHand))
	m.setStatus("Playing seen: calls cost the full bet.", false)
}

func (m *Model) changeBoot(delta int) {
	want := m.session.BootAmount() + delta
	if !m.session.SetBootAmount(want) {
		m.setStatus(fmt.Sprintf("Boot must be %d-%d and cannot change mid-round.", game.MinBoot, game.MaxBoot), true)
		return
	}
	m.setStatus(fmt.Sprintf("Boot set to %d.", want), false)
}

func (m *Model) toggleTheme() {
	m.dark = !m.dark
	m.theme = ThemeFor(m.dark)
	if m.prefs != nil {
		if err := m.prefs.SetBool(context.Background(), m.darkKey, m.dark); err != nil {
			m.logger.Error("Failed to save theme", "error", err)
		}
	}
}

func (m *Model) fail(err error) {
	m.logger.Debug("Action rejected", "error", err)
	m.setStatus(err.Error(), true)
}

func (m *Model) setStatus(s string, isError bool) {
	m.status = s
	m.isError = isError
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.theme.Header.Render(fmt.Sprintf("Teen Patti · %s", m.mode))
	footer := m.renderStatus() + "\n" + m.help.View(m.keys)

	sidebar := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebar), 28)

	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-2, 1)
	logWidth := max(m.width-sidebarWidth-4, 1)

	m.logViewport.Width = logWidth
	m.logViewport.Height = bodyHeight

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Width(logWidth).
		Height(bodyHeight).
		Render(m.theme.Log.Render(m.logViewport.View()))

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Focus).
		Width(sidebarWidth).
		Height(bodyHeight).
		Render(sidebar)

	body := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	player, opponent := m.session.Balances()

	b.WriteString(m.theme.Warning.Render(fmt.Sprintf("Boot: %d", m.session.BootAmount())))
	b.WriteString("\n")
	if m.hasRound {
		b.WriteString(m.theme.Warning.Render(fmt.Sprintf("Pot: %d | Bet: %d", m.round.Pot, m.round.CurrentBet)))
		b.WriteString("\n")
		if m.round.IsBlind {
			b.WriteString(m.theme.Info.Render("Blind"))
		} else {
			b.WriteString(m.theme.Info.Render("Seen"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.theme.HandInfo.Render(fmt.Sprintf("You: %d", player)))
	b.WriteString("\n")
	if m.hasRound {
		if m.round.IsBlind && m.round.OpponentHandHidden {
			b.WriteString(m.renderHidden(len(m.round.PlayerHand)))
		} else {
			b.WriteString(m.renderCards(m.round.PlayerHand))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.theme.HandInfo.Render(fmt.Sprintf("Opponent: %d", opponent)))
	b.WriteString("\n")
	if m.hasRound {
		if m.round.OpponentHandHidden {
			b.WriteString(m.renderHidden(deck.HandSize))
		} else {
			b.WriteString(m.renderCards(m.round.OpponentHand))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	if m.isError {
		return m.theme.Error.Render(m.status)
	}
	if m.hasRound && m.round.State == game.GameOver.String() {
		return m.theme.Success.Render(m.status)
	}
	return m.theme.Actions.Render(m.status)
}

func (m *Model) renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		style := m.theme.BlackCard
		if c.IsRed() {
			style = m.theme.RedCard
		}
		parts[i] = style.Render("[" + c.String() + "]")
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderHidden(n int) string {
	return m.theme.HiddenCard.Render(strings.TrimSpace(strings.Repeat("[??] ", n)))
}

func actionVerb(a game.Action) string {
	switch a {
	case game.Fold:
		return "fold"
	case game.Call:
		return "call"
	case game.Raise:
		return "raise"
	default:
		return "ask for a show"
	}
}

func playerPaid(effects []game.Effect) int {
	for _, e := range effects {
		if e.Kind == game.EffectContribute && e.Party == game.Player {
			return e.Amount
		}
	}
	return 0
}
