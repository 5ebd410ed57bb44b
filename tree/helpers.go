// Package tree provides exhaustive walks over a cfr.Game.
package tree

import (
	"github.com/timpalpant/pokercfr"
)

// Node is a single history of a game under one deal.
type Node struct {
	History cfr.History
	Context cfr.BetContext
	// Deal is the zero value at the chance node.
	Deal cfr.Deal
	// Type of the node: chance, terminal or player.
	Type NodeType
}

// NodeType is the type of node in an extensive-form game tree.
type NodeType int

const (
	ChanceNode NodeType = iota
	TerminalNode
	PlayerNode
)

// Visit calls visitor on the chance node and then on every node of the game
// tree under each deal, depth first in legal action order.
func Visit(game cfr.Game, visitor func(node Node)) {
	visitor(Node{Type: ChanceNode})
	for _, deal := range game.ChanceOutcomes() {
		visitHelper(game, game.Root(), cfr.BetContext{}, deal, visitor)
	}
}

func visitHelper(game cfr.Game, h cfr.History, ctx cfr.BetContext, deal cfr.Deal, visitor func(node Node)) {
	if game.IsTerminal(h, ctx) {
		visitor(Node{History: h, Context: ctx, Deal: deal, Type: TerminalNode})
		return
	}

	visitor(Node{History: h, Context: ctx, Deal: deal, Type: PlayerNode})
	for _, a := range game.LegalActions(h, ctx) {
		child, childCtx := game.Apply(h, ctx, a)
		visitHelper(game, child, childCtx, deal, visitor)
	}
}

// VisitInfoSets calls visitor once for every distinct information set.
func VisitInfoSets(game cfr.Game, visitor func(player int, infoSet string)) {
	seen := make(map[string]struct{})
	Visit(game, func(node Node) {
		if node.Type != PlayerNode {
			return
		}

		player := node.History.Player()
		infoSet := game.InfoSetKey(node.Deal.Card(player), node.History)
		if _, ok := seen[infoSet]; ok {
			return
		}

		visitor(player, infoSet)
		seen[infoSet] = struct{}{}
	})
}

func CountTerminalNodes(game cfr.Game) int {
	total := 0
	Visit(game, func(node Node) {
		if node.Type == TerminalNode {
			total++
		}
	})

	return total
}

func CountNodes(game cfr.Game) int {
	total := 0
	Visit(game, func(node Node) { total++ })
	return total
}

func CountInfoSets(game cfr.Game) int {
	total := 0
	VisitInfoSets(game, func(player int, infoSet string) { total++ })
	return total
}
