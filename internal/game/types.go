package game

import (
	"fmt"
	"strings"

	"github.com/lox/teenpatti/internal/deck"
)

const (
	MinBoot  = 10
	MaxBoot  = 100
	BootStep = 10

	DefaultBoot          = 10
	DefaultStartingChips = 1000
)

// State is the phase of a round
type State int

const (
	Betting State = iota
	Showdown
	GameOver
)

func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case Showdown:
		return "showdown"
	case GameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// Action is a move the player can make while betting
type Action int

const (
	Fold Action = iota
	Call
	Raise
	Show
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case Show:
		return "show"
	default:
		return "unknown"
	}
}

// ParseAction converts a case-insensitive action name
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold", "f":
		return Fold, nil
	case "call", "c":
		return Call, nil
	case "raise", "r":
		return Raise, nil
	case "show", "s":
		return Show, nil
	}
	return 0, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, s)
}

// Participant identifies a side of the table
type Participant int

const (
	Nobody Participant = iota
	Player
	Opponent
)

func (p Participant) String() string {
	switch p {
	case Player:
		return "player"
	case Opponent:
		return "opponent"
	default:
		return ""
	}
}

// Response is the opponent's answer to a call or raise
type Response int

const (
	Match Response = iota
	Concede
)

func (r Response) String() string {
	if r == Concede {
		return "fold"
	}
	return "match"
}

// RoundState is the complete value of a round. It is treated as immutable by
// Apply; hands are never modified after the deal.
type RoundState struct {
	ID            string
	Boot          int
	Pot           int
	CurrentBet    int
	PlayerChips   int
	OpponentChips int
	IsBlind       bool
	BetPlaced     bool
	State         State
	Winner        Participant
	WentToShow    bool
	PlayerHand    []deck.Card
	OpponentHand  []deck.Card
	Message       string
}

// Total returns the chips in play, which must not change across transitions.
func (s RoundState) Total() int {
	return s.PlayerChips + s.OpponentChips + s.Pot
}

// Chips returns the balance of one side
func (s RoundState) Chips(p Participant) int {
	switch p {
	case Player:
		return s.PlayerChips
	case Opponent:
		return s.OpponentChips
	default:
		return 0
	}
}

// Hand returns the cards dealt to one side
func (s RoundState) Hand(p Participant) []deck.Card {
	switch p {
	case Player:
		return s.PlayerHand
	case Opponent:
		return s.OpponentHand
	default:
		return nil
	}
}

// RoundView is what a presentation layer is allowed to see of a round. The
// opponent's hand is withheld until the round is over.
type RoundView struct {
	ID                 string      `json:"id"`
	State              string      `json:"state"`
	Boot               int         `json:"bootAmount"`
	Pot                int         `json:"potAmount"`
	CurrentBet         int         `json:"currentBet"`
	IsBlind            bool        `json:"isBlind"`
	PlayerChips        int         `json:"playerChips"`
	OpponentChips      int         `json:"opponentChips"`
	PlayerHand         []deck.Card `json:"playerHand"`
	OpponentHand       []deck.Card `json:"opponentHand,omitempty"`
	OpponentHandHidden bool        `json:"opponentHandHidden"`
	CanToggleBlind     bool        `json:"canToggleBlind"`
}

// NewRoundView projects a round state for display
func NewRoundView(s RoundState) RoundView {
	v := RoundView{
		ID:                 s.ID,
		State:              s.State.String(),
		Boot:               s.Boot,
		Pot:                s.Pot,
		CurrentBet:         s.CurrentBet,
		IsBlind:            s.IsBlind,
		PlayerChips:        s.PlayerChips,
		OpponentChips:      s.OpponentChips,
		PlayerHand:         append([]deck.Card(nil), s.PlayerHand...),
		OpponentHandHidden: s.State != GameOver,
		CanToggleBlind:     s.State == Betting && !s.BetPlaced,
	}
	if s.State == GameOver {
		v.OpponentHand = append([]deck.Card(nil), s.OpponentHand...)
	}
	return v
}

// RoundOutcome reports the result of a single action
type RoundOutcome struct {
	RoundID       string   `json:"roundId"`
	Action        string   `json:"action"`
	State         string   `json:"state"`
	Winner        string   `json:"winner,omitempty"`
	Message       string   `json:"message"`
	Pot           int      `json:"potAmount"`
	Payout        int      `json:"payout,omitempty"`
	CurrentBet    int      `json:"currentBet"`
	IsBlind       bool     `json:"isBlind"`
	PlayerChips   int      `json:"playerChips"`
	OpponentChips int      `json:"opponentChips"`
	Showdown      bool     `json:"showdown"`
	Effects       []Effect `json:"effects"`

	View RoundView `json:"round"`
}

func newRoundOutcome(action Action, s RoundState, effects []Effect) RoundOutcome {
	o := RoundOutcome{
		RoundID:       s.ID,
		Action:        action.String(),
		State:         s.State.String(),
		Winner:        s.Winner.String(),
		Message:       s.Message,
		Pot:           s.Pot,
		CurrentBet:    s.CurrentBet,
		IsBlind:       s.IsBlind,
		PlayerChips:   s.PlayerChips,
		OpponentChips: s.OpponentChips,
		Showdown:      s.WentToShow,
		Effects:       effects,
		View:          NewRoundView(s),
	}
	for _, e := range effects {
		if e.Kind == EffectPayout {
			o.Payout = e.Amount
		}
	}
	return o
}
