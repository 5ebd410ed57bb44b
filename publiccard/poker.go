// Package publiccard implements a three-card poker variant with one public
// card as a cfr.Game.
//
// Each player antes 1 and is dealt a private card. Players alternate calling
// (or checking), raising by 2, or folding. At most two raises are allowed, and
// play ends after four plays unless the fourth play was a raise, in which case
// the opponent must call or fold. At showdown a player holding the public card
// wins; otherwise the higher card wins. The winner takes the loser's stake.
//
// The public card is fixed when the game is constructed, and is not observed
// by either player during play.
package publiccard

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/timpalpant/pokercfr"
)

const (
	Initial = cfr.Action('i')
	Call    = cfr.Action('c')
	Raise   = cfr.Action('r')
	Fold    = cfr.Action('f')
)

const (
	Jack cfr.Card = iota
	Queen
	King

	numCards = 3
)

const (
	ante      = 1.0
	raiseSize = 2.0
	maxRaises = 2
	maxPlays  = 4
)

var cardStr = [...]string{"J", "Q", "K"}

// CardString returns the single-letter name of a card.
func CardString(c cfr.Card) string {
	return cardStr[c]
}

var (
	allActions    = []cfr.Action{Call, Raise, Fold}
	cappedActions = []cfr.Action{Call, Fold}
	rootHistory   = cfr.History([]byte{byte(Initial), byte(Initial)})
	deck          = []cfr.Card{Jack, Queen, King}
)

// Poker implements cfr.Game.
type Poker struct {
	publicCard cfr.Card
}

var _ cfr.Game = Poker{}

// NewGame returns the game played with the given public card.
func NewGame(publicCard cfr.Card) (Poker, error) {
	if publicCard < 0 || publicCard >= numCards {
		return Poker{}, errors.Errorf("public card %d out of range [0, %d)", publicCard, numCards)
	}

	return Poker{publicCard: publicCard}, nil
}

// PublicCard returns the card revealed at showdown.
func (g Poker) PublicCard() cfr.Card {
	return g.publicCard
}

// String implements fmt.Stringer.
func (g Poker) String() string {
	return fmt.Sprintf("publiccard (public card: %s)", CardString(g.publicCard))
}

// Root implements cfr.Game.
func (Poker) Root() cfr.History {
	return rootHistory
}

// IsChance implements cfr.Game.
func (Poker) IsChance(h cfr.History) bool {
	return h == ""
}

// IsTerminal implements cfr.Game.
func (Poker) IsTerminal(_ cfr.History, ctx cfr.BetContext) bool {
	return isTerminal(ctx)
}

func isTerminal(ctx cfr.BetContext) bool {
	if ctx.Last == Fold {
		return true
	}

	if ctx.Plays > maxPlays {
		return true
	}

	// A raise on the last play must be answered.
	return ctx.Plays == maxPlays && ctx.Last != Raise
}

// LegalActions implements cfr.Game. Raising is not allowed once the raise
// cap is reached, or when answering a raise on the last play.
func (Poker) LegalActions(_ cfr.History, ctx cfr.BetContext) []cfr.Action {
	if ctx.Raises >= maxRaises || ctx.Plays >= maxPlays {
		return cappedActions
	}

	return allActions
}

// Apply implements cfr.Game.
func (Poker) Apply(h cfr.History, ctx cfr.BetContext, a cfr.Action) (cfr.History, cfr.BetContext) {
	ctx.Plays++
	if a == Raise {
		ctx.Raises++
	}
	ctx.Last = a
	return h.Append(a), ctx
}

// ChanceOutcomes implements cfr.Game. Every ordered pair of distinct private
// cards is equally likely; the public card is not removed from the deck.
func (Poker) ChanceOutcomes() []cfr.Deal {
	var result []cfr.Deal
	for _, p0Card := range deck {
		for _, p1Card := range deck {
			if p0Card != p1Card {
				result = append(result, cfr.Deal{P0Card: p0Card, P1Card: p1Card})
			}
		}
	}

	for i := range result {
		result[i].Probability = 1.0 / float64(len(result))
	}

	return result
}

// Utility implements cfr.Game.
func (g Poker) Utility(h cfr.History, d cfr.Deal) float64 {
	s, err := replay(h)
	if err != nil {
		panic(err)
	}

	if !isTerminal(s.ctx) {
		panic(errors.Errorf("publiccard: history %q is not terminal", h))
	}

	switch s.folded {
	case 0:
		return -s.stake[0]
	case 1:
		return s.stake[1]
	}

	if g.wins(d.P0Card, d.P1Card) {
		return s.stake[1]
	}

	return -s.stake[0]
}

// wins returns true if a player holding card beats one holding opponent.
func (g Poker) wins(card, opponent cfr.Card) bool {
	if card == g.publicCard {
		return true
	} else if opponent == g.publicCard {
		return false
	}

	return card > opponent
}

// InfoSetKey implements cfr.Game.
func (Poker) InfoSetKey(card cfr.Card, h cfr.History) string {
	return CardString(card) + " " + string(h)
}

// Pot returns the total amount staked by both players at history h.
func (Poker) Pot(h cfr.History) (float64, error) {
	s, err := replay(h)
	if err != nil {
		return 0, err
	}

	return s.stake[0] + s.stake[1], nil
}

type state struct {
	ctx    cfr.BetContext
	stake  [2]float64
	folded int
}

// replay recomputes the betting state at h from the root.
func replay(h cfr.History) (state, error) {
	s := state{stake: [2]float64{ante, ante}, folded: -1}
	if len(h) < len(rootHistory) || h[:len(rootHistory)] != rootHistory {
		return s, errors.Errorf("publiccard: history %q does not start with %q", h, rootHistory)
	}

	for i := len(rootHistory); i < len(h); i++ {
		if isTerminal(s.ctx) {
			return s, errors.Errorf("publiccard: history %q continues past a terminal state", h)
		}

		player := i % 2
		a := cfr.Action(h[i])
		outstanding := s.stake[1-player]
		switch a {
		case Call:
			s.stake[player] = outstanding
		case Raise:
			if s.ctx.Raises >= maxRaises {
				return s, errors.Errorf("publiccard: history %q exceeds %d raises", h, maxRaises)
			}
			s.stake[player] = outstanding + raiseSize
		case Fold:
			s.folded = player
		default:
			return s, errors.Errorf("publiccard: unknown action %q in history %q", a, h)
		}

		s.ctx.Plays++
		if a == Raise {
			s.ctx.Raises++
		}
		s.ctx.Last = a
	}

	return s, nil
}
