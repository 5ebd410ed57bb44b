package cfr

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// CFR implements vanilla counterfactual regret minimization: every chance
// outcome and every legal action is walked on each iteration.
type CFR struct {
	game      Game
	store     InfoSetStore
	slicePool *floatSlicePool
}

// New returns a CFR engine for the given game that accumulates regrets and
// strategies in store.
func New(game Game, store InfoSetStore) *CFR {
	return &CFR{
		game:      game,
		store:     store,
		slicePool: &floatSlicePool{},
	}
}

// Run performs one iteration of CFR: a full walk of the game tree followed by
// a strategy update of every information set. It returns the expected value of
// the game for player 0 under the current strategy profile.
func (c *CFR) Run() float64 {
	expectedValue := c.runHelper(History(""), Deal{}, BetContext{}, 1.0, 1.0, 1.0)
	c.store.Update()
	return expectedValue
}

// runHelper returns the value of the subtree at h from the point of view of
// the player to act at h.
func (c *CFR) runHelper(h History, deal Deal, ctx BetContext, reachP0, reachP1, reachChance float64) float64 {
	switch {
	case c.game.IsChance(h):
		return c.handleChanceNode(reachChance)
	case c.game.IsTerminal(h, ctx):
		return c.handleTerminalNode(h, deal)
	default:
		return c.handlePlayerNode(h, deal, ctx, reachP0, reachP1, reachChance)
	}
}

func (c *CFR) handleChanceNode(reachChance float64) float64 {
	root := c.game.Root()
	var expectedValue float64
	for _, deal := range c.game.ChanceOutcomes() {
		p := deal.Probability
		expectedValue += p * c.runHelper(root, deal, BetContext{}, 1.0, 1.0, p*reachChance)
	}

	return expectedValue
}

func (c *CFR) handleTerminalNode(h History, deal Deal) float64 {
	u := c.game.Utility(h, deal)
	if h.Player() == 1 {
		return -u
	}

	return u
}

func (c *CFR) handlePlayerNode(h History, deal Deal, ctx BetContext, reachP0, reachP1, reachChance float64) float64 {
	player := h.Player()
	actions := c.game.LegalActions(h, ctx)
	if len(actions) == 0 {
		panic(fmt.Errorf("non-terminal history %q has no legal actions", h))
	}

	key := c.game.InfoSetKey(deal.Card(player), h)
	is := c.store.Get(key, actions)
	is.AddReachProb(reachProb(player, reachP0, reachP1))

	// Children must see the strategy as it was at the start of this visit.
	strategy := c.slicePool.alloc(len(actions))
	defer c.slicePool.free(strategy)
	copy(strategy, is.Strategy)

	actionUtils := c.slicePool.alloc(len(actions))
	defer c.slicePool.free(actionUtils)
	for i, a := range actions {
		child, childCtx := c.game.Apply(h, ctx, a)
		p := strategy[i]
		if player == 0 {
			actionUtils[i] = -1 * c.runHelper(child, deal, childCtx, p*reachP0, reachP1, reachChance)
		} else {
			actionUtils[i] = -1 * c.runHelper(child, deal, childCtx, reachP0, p*reachP1, reachChance)
		}
	}

	util := floats.Dot(actionUtils, strategy)

	// Transform action utilities into instantaneous regrets by
	// subtracting out the expected utility over all possible actions.
	floats.AddConst(-util, actionUtils)
	is.AddRegret(counterFactualProb(player, reachP0, reachP1, reachChance), actionUtils)
	c.store.Put(key, is)
	return util
}

func reachProb(player int, reachP0, reachP1 float64) float64 {
	if player == 0 {
		return reachP0
	}

	return reachP1
}

// The probability of reaching this node, assuming that the current player
// tried to reach it.
func counterFactualProb(player int, reachP0, reachP1, reachChance float64) float64 {
	if player == 0 {
		return reachP1 * reachChance
	}

	return reachP0 * reachChance
}
