package kuhn

import (
	"math"
	"testing"

	"github.com/timpalpant/pokercfr"
	"github.com/timpalpant/pokercfr/tree"
)

func TestPoker_GameTree(t *testing.T) {
	game := NewGame()

	nNodes := tree.CountNodes(game)
	if nNodes != 55 {
		t.Errorf("expected %d nodes, got %d", 55, nNodes)
	}

	nTerminal := tree.CountTerminalNodes(game)
	if nTerminal != 30 {
		t.Errorf("expected %d terminal nodes, got %d", 30, nTerminal)
	}
}

func TestPoker_InfoSets(t *testing.T) {
	game := NewGame()
	nInfoSets := tree.CountInfoSets(game)
	if nInfoSets != 12 {
		t.Errorf("expected %d infosets, got %d", 12, nInfoSets)
	}

	tree.VisitInfoSets(game, func(player int, infoSet string) {
		if len(infoSet)%2 != player {
			t.Errorf("infoset %q of player %d has wrong length parity", infoSet, player)
		}
	})
}

func TestPoker_InfoSetKey(t *testing.T) {
	game := NewGame()
	// Player 1 cannot see player 0's card.
	a := game.InfoSetKey(cfr.Deal{P0Card: Jack, P1Card: Queen}.Card(1), "rrb")
	b := game.InfoSetKey(cfr.Deal{P0Card: King, P1Card: Queen}.Card(1), "rrb")
	if a != b {
		t.Errorf("expected same infoset for different opponent cards, got %q and %q", a, b)
	}

	if game.InfoSetKey(Queen, "rrb") == game.InfoSetKey(Queen, "rrcb") {
		t.Error("expected different infosets for different histories")
	}

	if got := game.InfoSetKey(King, "rrcb"); got != "K rrcb" {
		t.Errorf("expected key %q, got %q", "K rrcb", got)
	}
}

func TestPoker_Utility(t *testing.T) {
	game := NewGame()
	testCases := []struct {
		history cfr.History
		deal    cfr.Deal
		want    float64
	}{
		{"rrcc", cfr.Deal{P0Card: King, P1Card: Jack}, 1},
		{"rrcc", cfr.Deal{P0Card: Jack, P1Card: Queen}, -1},
		{"rrcbc", cfr.Deal{P0Card: King, P1Card: Jack}, -1},
		{"rrbc", cfr.Deal{P0Card: Jack, P1Card: King}, 1},
		{"rrbb", cfr.Deal{P0Card: Queen, P1Card: Jack}, 2},
		{"rrcbb", cfr.Deal{P0Card: Queen, P1Card: King}, -2},
	}

	for _, tc := range testCases {
		got := game.Utility(tc.history, tc.deal)
		if got != tc.want {
			t.Errorf("%s %v: expected %v, got %v", tc.history, tc.deal, tc.want, got)
		}

		if again := game.Utility(tc.history, tc.deal); again != got {
			t.Errorf("%s %v: utility is not deterministic: %v then %v", tc.history, tc.deal, got, again)
		}
	}
}

func TestPoker_UtilityPanicsOnUnknownHistory(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for non-terminal history")
		}
	}()

	NewGame().Utility("rrc", cfr.Deal{P0Card: Jack, P1Card: Queen})
}

func TestPoker_ChanceOutcomes(t *testing.T) {
	deals := NewGame().ChanceOutcomes()
	if len(deals) != 6 {
		t.Fatalf("expected 6 deals, got %d", len(deals))
	}

	var total float64
	for _, d := range deals {
		if d.P0Card == d.P1Card {
			t.Errorf("deal %v gives both players the same card", d)
		}
		total += d.Probability
	}

	if math.Abs(total-1) > 1e-12 {
		t.Errorf("expected probabilities to sum to 1, got %v", total)
	}
}

func TestPoker_VanillaCFR(t *testing.T) {
	game := NewGame()
	store := cfr.NewStrategyTable()
	params := cfr.DefaultParams()
	params.Iterations = 10000
	trainer, err := cfr.NewTrainer(game, store, params)
	if err != nil {
		t.Fatal(err)
	}

	result := trainer.Train()
	t.Logf("Expected game value: %.4f", result.ExpectedValue)

	// Kuhn Poker's game value for the first player is -1/18.
	if math.Abs(result.ExpectedValue-(-1.0/18)) > 0.02 {
		t.Errorf("expected game value near %.4f, got %.4f", -1.0/18, result.ExpectedValue)
	}

	if result.PlayerValue(1) != -result.PlayerValue(0) {
		t.Errorf("player values %v and %v are not zero-sum",
			result.PlayerValue(0), result.PlayerValue(1))
	}

	tree.VisitInfoSets(game, func(player int, infoSet string) {
		strat := trainer.AverageStrategy(infoSet)
		t.Logf("[player %d] %6s: check=%.2f bet=%.2f", player, infoSet, strat[0], strat[1])

		var total float64
		for _, p := range strat {
			if p < 0 {
				t.Errorf("%s: negative probability in %v", infoSet, strat)
			}
			total += p
		}
		if math.Abs(total-1) > 1e-6 {
			t.Errorf("%s: strategy %v sums to %v", infoSet, strat, total)
		}
	})

	// Player 0 bets (for value) with a King more often than it bluffs with a Jack.
	kingBet := trainer.AverageStrategy("K rr")[1]
	jackBet := trainer.AverageStrategy("J rr")[1]
	if kingBet <= jackBet {
		t.Errorf("expected King bet frequency %.3f > Jack bet frequency %.3f", kingBet, jackBet)
	}

	// Player 1 always calls a bet with a King and always folds a Jack.
	if p := trainer.AverageStrategy("K rrb")[1]; p < 0.95 {
		t.Errorf("expected player 1 to call with a King, got bet=%.3f", p)
	}
	if p := trainer.AverageStrategy("J rrb")[0]; p < 0.95 {
		t.Errorf("expected player 1 to fold a Jack, got check=%.3f", p)
	}
}
