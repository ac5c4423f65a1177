// Package game implements the betting core of a heads-up Teen Patti table.
//
// A Session carries chip stacks and the boot amount across rounds. Each Round
// deals three cards to the player and the opponent, collects the boot from both
// sides and then accepts player actions until it reaches GameOver.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	s, err := game.NewSession(rng, game.WithBoot(20))
//	view, err := s.StartRound()
//	outcome, err := s.Act(game.Raise)
//	if outcome.State == game.GameOver.String() {
//	    fmt.Println(outcome.Winner, outcome.Message)
//	}
//
// # Transitions
//
// All state changes go through Apply, a pure function from a RoundState and an
// Action to the next RoundState and the list of Effects it produced. Apply never
// mutates its input, so a rejected action leaves the caller's state untouched.
// The opponent's response comes from a Policy and the showdown winner from a
// Judge. Both are injected, which keeps every random draw replayable from a
// seed.
//
// Chips are conserved: player chips, opponent chips and the pot always sum to
// the same total, and a payout moves the entire pot to the winner.
package game
