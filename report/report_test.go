package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/timpalpant/pokercfr"
	"github.com/timpalpant/pokercfr/kuhn"
)

func trainKuhn(t *testing.T, nIter int) (*cfr.StrategyTable, cfr.Result) {
	store := cfr.NewStrategyTable()
	trainer, err := cfr.NewTrainer(kuhn.NewGame(), store, cfr.Params{
		Iterations:            nIter,
		PurificationThreshold: cfr.DefaultPurificationThreshold,
	})
	if err != nil {
		t.Fatal(err)
	}

	return store, trainer.Train()
}

func TestBuild_PartitionsByPlayer(t *testing.T) {
	store, result := trainKuhn(t, 100)
	r := Build(kuhn.NewGame(), result, store, cfr.DefaultPurificationThreshold)

	if r.Game != "kuhn" || r.Iterations != 100 {
		t.Errorf("unexpected header: game=%q iterations=%d", r.Game, r.Iterations)
	}
	if r.Values[1] != -r.Values[0] {
		t.Errorf("expected zero-sum values, got %v", r.Values)
	}

	for player, entries := range r.Strategies {
		if len(entries) != 6 {
			t.Errorf("player %d: expected 6 infosets, got %d", player, len(entries))
		}

		for i, e := range entries {
			// Keys are "<card> <history>", so player 1 keys have odd length.
			if len(e.InfoSet)%2 != player {
				t.Errorf("player %d: unexpected infoset %q", player, e.InfoSet)
			}
			if i > 0 && entries[i-1].InfoSet >= e.InfoSet {
				t.Errorf("player %d: infosets out of order: %q before %q",
					player, entries[i-1].InfoSet, e.InfoSet)
			}
			if len(e.Actions) != len(e.Strategy) {
				t.Errorf("%s: %d actions but %d probabilities", e.InfoSet, len(e.Actions), len(e.Strategy))
			}
		}
	}
}

func TestReport_WriteTo(t *testing.T) {
	store, result := trainKuhn(t, 10)
	r := Build(kuhn.NewGame(), result, store, cfr.DefaultPurificationThreshold)

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("reported %d bytes written, buffer has %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"game: kuhn\n",
		"iterations: 10\n",
		"player 1 expected value: ",
		"player 2 expected value: ",
		"player 1 strategies:\n",
		"player 2 strategies:\n",
		"K rr ",
		"J rrb ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	if strings.Index(out, "player 1 strategies") > strings.Index(out, "player 2 strategies") {
		t.Error("expected player 1 strategies before player 2")
	}
}

func TestFormatStrategy(t *testing.T) {
	e := Entry{
		InfoSet:  "K rr",
		Actions:  []cfr.Action{kuhn.Check, kuhn.Bet},
		Strategy: []float64{0.789, 0.211},
	}

	if got := FormatStrategy(e); got != "c=0.79 b=0.21" {
		t.Errorf("expected %q, got %q", "c=0.79 b=0.21", got)
	}
}
