package cfr

// Action is a single symbol in a game's history alphabet.
type Action byte

// String implements fmt.Stringer.
func (a Action) String() string {
	return string([]byte{byte(a)})
}

// History is the public sequence of actions taken from the root of the game.
// Histories are immutable: Append always returns a new value.
type History string

// Append returns a new History extended by the given action.
func (h History) Append(a Action) History {
	return h + History([]byte{byte(a)})
}

// Last returns the most recent action, or 0 if the history is empty.
func (h History) Last() Action {
	if len(h) == 0 {
		return 0
	}

	return Action(h[len(h)-1])
}

// Player returns the player to act at this history: 0 for even length,
// 1 for odd length.
func (h History) Player() int {
	return len(h) % 2
}

// Card is a private card index into a game's deck.
type Card int

// Deal is one mutually exclusive outcome of the chance node: the private
// card of each player and the probability it is dealt.
type Deal struct {
	P0Card, P1Card Card
	Probability    float64
}

// Card returns the private card held by the given player.
func (d Deal) Card(player int) Card {
	if player == 0 {
		return d.P0Card
	}

	return d.P1Card
}

// BetContext is the betting state that accompanies a history during a walk.
// Games that terminate on raise or play caps use it to decide terminal
// histories and legal actions without re-parsing the history.
type BetContext struct {
	Plays  int
	Raises int
	Last   Action
}

// Game is a two-player, zero-sum extensive-form game with a single chance
// node at the root that deals one private card to each player.
//
// Implementations must be pure: every method returns the same result for
// the same arguments.
type Game interface {
	// Root is the starting history after the deal. It must have even
	// length so that player 0 acts first.
	Root() History
	// IsChance returns true if the history is the (pre-deal) chance node.
	IsChance(h History) bool
	// IsTerminal returns true if play has ended at this history.
	IsTerminal(h History, ctx BetContext) bool
	// LegalActions returns the actions available at a decision node. The
	// order fixes the index of each action in regret and strategy vectors,
	// so it must be the same for every history in one information set.
	LegalActions(h History, ctx BetContext) []Action
	// Apply returns the history and betting context after taking action a.
	Apply(h History, ctx BetContext, a Action) (History, BetContext)
	// ChanceOutcomes enumerates every possible deal. Probabilities sum to 1.
	ChanceOutcomes() []Deal
	// Utility returns player 0's payoff at a terminal history. Implementations
	// panic on histories that are not terminal.
	Utility(h History, d Deal) float64
	// InfoSetKey identifies the information set of the player holding card
	// at history h. The key length must have the same parity as len(h).
	InfoSetKey(card Card, h History) string
}
