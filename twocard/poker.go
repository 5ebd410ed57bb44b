// Package twocard implements a poker variant in which each player is dealt
// one of six two-card hands, as a cfr.Game.
//
// Hands are ranked JJ < JQ < JK < QQ < QK < KK. Players alternate calling,
// raising, or folding, with at most two raises. Play ends when a player folds
// or after five plays. The payoff is decided by comparing hands, and its size
// is the number of calls plus twice the number of raises in the history.
package twocard

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/timpalpant/pokercfr"
)

const (
	Initial = cfr.Action('i')
	Call    = cfr.Action('c')
	Raise   = cfr.Action('r')
	Fold    = cfr.Action('f')
)

const (
	maxRaises = 2
	maxPlays  = 4
)

var handStr = [...]string{"JJ", "JQ", "JK", "QQ", "QK", "KK"}

// NumHands is the number of distinct hands that can be dealt.
const NumHands = len(handStr)

// HandString returns the name of a hand.
func HandString(c cfr.Card) string {
	return handStr[c]
}

// CompareMode selects how the player to act at a terminal history is compared
// against their opponent.
type CompareMode int

const (
	// Symmetric compares the player's hand against the opponent's hand.
	Symmetric CompareMode = iota
	// LegacyFixedOpponent always compares against player 1's hand, which
	// makes player 1 lose every showdown in which it is the player to act.
	// It exists only for parity with an older implementation: payoffs are
	// not symmetric between players in this mode.
	LegacyFixedOpponent
)

func (m CompareMode) String() string {
	switch m {
	case Symmetric:
		return "symmetric"
	case LegacyFixedOpponent:
		return "legacy-fixed-opponent"
	}

	return fmt.Sprintf("CompareMode(%d)", int(m))
}

var (
	allActions    = []cfr.Action{Call, Raise, Fold}
	cappedActions = []cfr.Action{Call, Fold}
	rootHistory   = cfr.History([]byte{byte(Initial), byte(Initial)})
)

// Poker implements cfr.Game.
type Poker struct {
	mode CompareMode
}

var _ cfr.Game = Poker{}

// NewGame returns the game with the given showdown comparison mode.
func NewGame(mode CompareMode) Poker {
	if mode == LegacyFixedOpponent {
		glog.Warningf("twocard: using %v comparison, payoffs are asymmetric between players", mode)
	}

	return Poker{mode: mode}
}

// Mode returns the showdown comparison mode.
func (g Poker) Mode() CompareMode {
	return g.mode
}

// String implements fmt.Stringer.
func (g Poker) String() string {
	return fmt.Sprintf("twocard (%v)", g.mode)
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
	return ctx.Last == Fold || ctx.Plays > maxPlays
}

// LegalActions implements cfr.Game.
func (Poker) LegalActions(_ cfr.History, ctx cfr.BetContext) []cfr.Action {
	if ctx.Raises >= maxRaises {
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

// ChanceOutcomes implements cfr.Game. Both players are dealt different hands,
// with every ordered pair equally likely.
func (Poker) ChanceOutcomes() []cfr.Deal {
	var result []cfr.Deal
	for i := 0; i < NumHands; i++ {
		for j := 0; j < NumHands; j++ {
			if i != j {
				result = append(result, cfr.Deal{P0Card: cfr.Card(i), P1Card: cfr.Card(j)})
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
	ctx, err := replay(h)
	if err != nil {
		panic(err)
	}

	if !isTerminal(ctx) {
		panic(fmt.Errorf("twocard: history %q is not terminal", h))
	}

	// Payoff to the player who would act next.
	player := h.Player()
	card := d.Card(player)
	opponent := d.Card(1 - player)
	if g.mode == LegacyFixedOpponent {
		opponent = d.P0Card
	}

	stake := Stake(h)
	u := -stake
	if card > opponent {
		u = stake
	}

	if player == 1 {
		return -u
	}

	return u
}

// Stake returns the number of calls plus twice the number of raises in h.
func Stake(h cfr.History) float64 {
	s := string(h)
	return float64(strings.Count(s, Call.String()) + 2*strings.Count(s, Raise.String()))
}

// Pot returns the amount contested at history h.
func (Poker) Pot(h cfr.History) (float64, error) {
	if _, err := replay(h); err != nil {
		return 0, err
	}

	return Stake(h), nil
}

// InfoSetKey implements cfr.Game. Hand names are two letters, so the key
// omits a separator to keep its length parity equal to the history's.
func (Poker) InfoSetKey(card cfr.Card, h cfr.History) string {
	return HandString(card) + string(h)
}

// replay recomputes the betting context at h from the root.
func replay(h cfr.History) (cfr.BetContext, error) {
	var ctx cfr.BetContext
	if len(h) < len(rootHistory) || h[:len(rootHistory)] != rootHistory {
		return ctx, fmt.Errorf("twocard: history %q does not start with %q", h, rootHistory)
	}

	for _, b := range []byte(h[len(rootHistory):]) {
		if isTerminal(ctx) {
			return ctx, fmt.Errorf("twocard: history %q continues past a terminal state", h)
		}

		a := cfr.Action(b)
		switch a {
		case Call, Fold:
		case Raise:
			if ctx.Raises >= maxRaises {
				return ctx, fmt.Errorf("twocard: history %q exceeds %d raises", h, maxRaises)
			}
			ctx.Raises++
		default:
			return ctx, fmt.Errorf("twocard: unknown action %q in history %q", a, h)
		}

		ctx.Plays++
		ctx.Last = a
	}

	return ctx, nil
}
