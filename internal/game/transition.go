package game

import "fmt"

// User-visible messages
const (
	msgPlayerFolded   = "You folded. Opponent wins the pot."
	msgOpponentFolded = "Opponent folded. You win the pot!"
	msgPlayerWins     = "You win with a better hand!"
	msgOpponentWins   = "Opponent wins with a better hand."
	msgOpponentCalls  = "Opponent calls your raise."
)

// EffectKind classifies a single observable consequence of a transition
type EffectKind int

const (
	EffectContribute EffectKind = iota
	EffectOpponentFolded
	EffectOpponentMatched
	EffectShowdown
	EffectPayout
)

func (k EffectKind) String() string {
	return [...]string{"contribute", "opponent_folded", "opponent_matched", "showdown", "payout"}[k]
}

// MarshalText renders the kind by name on the wire
func (k EffectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Effect records what a transition did, in order
type Effect struct {
	Kind   EffectKind  `json:"kind"`
	Party  Participant `json:"-"`
	Who    string      `json:"party,omitempty"`
	Amount int         `json:"amount,omitempty"`
}

func effect(kind EffectKind, p Participant, amount int) Effect {
	return Effect{Kind: kind, Party: p, Who: p.String(), Amount: amount}
}

// CallAmount is what the player pays to call
func (s RoundState) CallAmount() int {
	if s.IsBlind {
		return s.CurrentBet / 2
	}
	return s.CurrentBet
}

// RaiseAmount is what the player pays to raise
func (s RoundState) RaiseAmount() int {
	if s.IsBlind {
		return s.CurrentBet
	}
	return s.CurrentBet * 2
}

// Apply computes the state that follows action. The input is never modified.
// On error the returned state equals the input.
func Apply(s RoundState, action Action, policy Policy, judge Judge) (RoundState, []Effect, error) {
	if s.State != Betting {
		return s, nil, fmt.Errorf("%w: %s not allowed in state %s", ErrInvalidAction, action, s.State)
	}

	next := s
	var effects []Effect

	switch action {
	case Fold:
		next.Message = msgPlayerFolded
		effects = next.payout(Opponent, effects)

	case Call:
		bet := s.CallAmount()
		if err := s.require(Player, bet); err != nil {
			return s, nil, err
		}
		if err := s.require(Opponent, s.CurrentBet); err != nil {
			return s, nil, err
		}

		effects = next.contribute(Player, bet, effects)
		if policy.Decide(Call, next) == Concede {
			effects = append(effects, effect(EffectOpponentFolded, Opponent, 0))
			next.Message = msgOpponentFolded
			effects = next.payout(Player, effects)
			break
		}

		effects = append(effects, effect(EffectOpponentMatched, Opponent, s.CurrentBet))
		effects = next.contribute(Opponent, s.CurrentBet, effects)
		effects = next.showdown(judge, effects)

	case Raise:
		amount := s.RaiseAmount()
		if err := s.require(Player, amount); err != nil {
			return s, nil, err
		}
		if err := s.require(Opponent, amount); err != nil {
			return s, nil, err
		}

		effects = next.contribute(Player, amount, effects)
		next.CurrentBet = s.CurrentBet * 2
		next.BetPlaced = true

		if policy.Decide(Raise, next) == Concede {
			effects = append(effects, effect(EffectOpponentFolded, Opponent, 0))
			next.Message = msgOpponentFolded
			effects = next.payout(Player, effects)
			break
		}

		effects = append(effects, effect(EffectOpponentMatched, Opponent, amount))
		effects = next.contribute(Opponent, amount, effects)
		next.Message = msgOpponentCalls

	case Show:
		effects = next.showdown(judge, effects)

	default:
		return s, nil, fmt.Errorf("%w: unknown action %d", ErrInvalidAction, int(action))
	}

	return next, effects, nil
}

// ToggleBlind flips the blind flag. It is only allowed before the first bet.
func ToggleBlind(s RoundState) (RoundState, error) {
	if s.State != Betting {
		return s, fmt.Errorf("%w: blind cannot change in state %s", ErrInvalidAction, s.State)
	}
	if s.BetPlaced {
		return s, fmt.Errorf("%w: blind cannot change after a bet", ErrInvalidAction)
	}
	s.IsBlind = !s.IsBlind
	return s, nil
}

func (s RoundState) require(p Participant, amount int) error {
	if have := s.Chips(p); amount > have {
		return fmt.Errorf("%w: %s needs %d, has %d", ErrInsufficientChips, p, amount, have)
	}
	return nil
}

// contribute moves chips from a participant into the pot in one step
func (s *RoundState) contribute(p Participant, amount int, effects []Effect) []Effect {
	switch p {
	case Player:
		s.PlayerChips -= amount
	case Opponent:
		s.OpponentChips -= amount
	}
	s.Pot += amount
	return append(effects, effect(EffectContribute, p, amount))
}

// payout moves the whole pot to the winner and ends the round
func (s *RoundState) payout(winner Participant, effects []Effect) []Effect {
	amount := s.Pot
	switch winner {
	case Player:
		s.PlayerChips += amount
	case Opponent:
		s.OpponentChips += amount
	}
	s.Pot = 0
	s.Winner = winner
	s.State = GameOver
	return append(effects, effect(EffectPayout, winner, amount))
}

func (s *RoundState) showdown(judge Judge, effects []Effect) []Effect {
	s.State = Showdown
	s.WentToShow = true
	effects = append(effects, effect(EffectShowdown, Nobody, 0))

	winner := judge.Winner(*s)
	if winner == Player {
		s.Message = msgPlayerWins
	} else {
		winner = Opponent
		s.Message = msgOpponentWins
	}
	return s.payout(winner, effects)
}
