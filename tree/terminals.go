package tree

import (
	"sort"

	"github.com/timpalpant/pokercfr"
)

// Potter is implemented by games that can report the amount staked at a history.
type Potter interface {
	Pot(h cfr.History) (float64, error)
}

// Terminal is a distinct terminal history of a game.
type Terminal struct {
	History cfr.History
	// Pot is the amount staked at the terminal history, if the game
	// implements Potter, or zero otherwise.
	Pot float64
	// Utilities holds player 0's payoff under each deal, in the order
	// of the game's ChanceOutcomes.
	Utilities []float64
}

// Terminals returns every distinct terminal history of the game, sorted
// lexicographically.
func Terminals(game cfr.Game) ([]Terminal, error) {
	deals := game.ChanceOutcomes()
	byHistory := make(map[cfr.History]*Terminal)
	for i, deal := range deals {
		var err error
		visitHelper(game, game.Root(), cfr.BetContext{}, deal, func(node Node) {
			if node.Type != TerminalNode || err != nil {
				return
			}

			t, ok := byHistory[node.History]
			if !ok {
				t = &Terminal{
					History:   node.History,
					Utilities: make([]float64, len(deals)),
				}
				if p, ok := game.(Potter); ok {
					t.Pot, err = p.Pot(node.History)
				}
				byHistory[node.History] = t
			}

			t.Utilities[i] = game.Utility(node.History, deal)
		})

		if err != nil {
			return nil, err
		}
	}

	result := make([]Terminal, 0, len(byHistory))
	for _, t := range byHistory {
		result = append(result, *t)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].History < result[j].History
	})

	return result, nil
}
