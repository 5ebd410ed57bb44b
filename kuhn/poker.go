// Package kuhn implements Kuhn Poker as a cfr.Game, adapted from:
// https://justinsermeno.com/posts/cfr/.
package kuhn

import (
	"fmt"

	"github.com/timpalpant/pokercfr"
)

const (
	Random = cfr.Action('r')
	Check  = cfr.Action('c')
	Bet    = cfr.Action('b')
)

const (
	Jack cfr.Card = iota
	Queen
	King
)

var cardStr = [...]string{
	"J",
	"Q",
	"K",
}

// CardString returns the single-letter name of a card.
func CardString(c cfr.Card) string {
	return cardStr[c]
}

// Actions at every decision node, in vector order.
var actions = []cfr.Action{Check, Bet}

// Poker implements cfr.Game for three-card Kuhn Poker with an ante of 1
// and a single bet of 1.
type Poker struct{}

var _ cfr.Game = Poker{}

// NewGame returns Kuhn Poker.
func NewGame() Poker {
	return Poker{}
}

// String implements fmt.Stringer.
func (Poker) String() string {
	return "kuhn"
}

// Root implements cfr.Game. Both cards are dealt before play begins.
func (Poker) Root() cfr.History {
	return cfr.History([]byte{byte(Random), byte(Random)})
}

// IsChance implements cfr.Game.
func (Poker) IsChance(h cfr.History) bool {
	return h == ""
}

// IsTerminal implements cfr.Game.
func (Poker) IsTerminal(h cfr.History, _ cfr.BetContext) bool {
	return isTerminal(h)
}

func isTerminal(h cfr.History) bool {
	return (h == "rrcc" || h == "rrcbc" ||
		h == "rrcbb" || h == "rrbc" || h == "rrbb")
}

// LegalActions implements cfr.Game.
func (Poker) LegalActions(_ cfr.History, _ cfr.BetContext) []cfr.Action {
	return actions
}

// Apply implements cfr.Game.
func (Poker) Apply(h cfr.History, ctx cfr.BetContext, a cfr.Action) (cfr.History, cfr.BetContext) {
	ctx.Plays++
	if a == Bet {
		ctx.Raises++
	}
	ctx.Last = a
	return h.Append(a), ctx
}

// ChanceOutcomes implements cfr.Game.
func (Poker) ChanceOutcomes() []cfr.Deal {
	var result []cfr.Deal
	for _, p0Card := range []cfr.Card{Jack, Queen, King} {
		for _, p1Card := range []cfr.Card{Jack, Queen, King} {
			if p0Card == p1Card {
				continue // Both players can't be dealt the same card.
			}

			result = append(result, cfr.Deal{P0Card: p0Card, P1Card: p1Card})
		}
	}

	for i := range result {
		result[i].Probability = 1.0 / float64(len(result))
	}

	return result
}

// Utility implements cfr.Game.
func (Poker) Utility(h cfr.History, d cfr.Deal) float64 {
	switch h {
	case "rrcbc":
		// Player 0 passed after a bet.
		return -1.0
	case "rrbc":
		// Player 1 passed after a bet.
		return 1.0
	case "rrcc":
		// Showdown with no bets.
		return showdown(d, 1.0)
	case "rrcbb", "rrbb":
		// Showdown with 1 bet.
		return showdown(d, 2.0)
	}

	panic(fmt.Errorf("kuhn: unexpected terminal history: %q", h))
}

func showdown(d cfr.Deal, stake float64) float64 {
	if d.P0Card > d.P1Card {
		return stake
	}

	return -stake
}

// InfoSetKey implements cfr.Game.
func (Poker) InfoSetKey(card cfr.Card, h cfr.History) string {
	return CardString(card) + " " + string(h)
}
