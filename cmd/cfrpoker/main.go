// Train an approximate Nash equilibrium for a small poker variant with
// vanilla CFR and print the resulting strategies.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/timpalpant/pokercfr"
	"github.com/timpalpant/pokercfr/kuhn"
	"github.com/timpalpant/pokercfr/ldbstore"
	"github.com/timpalpant/pokercfr/publiccard"
	"github.com/timpalpant/pokercfr/report"
	"github.com/timpalpant/pokercfr/tree"
	"github.com/timpalpant/pokercfr/twocard"
)

type RunParams struct {
	Game          string
	Seed          int64
	LegacyCompare bool
	Store         string
	LevelDBDir    string
	ListTerminals bool
	SavePath      string

	CFR cfr.Params
}

type game interface {
	cfr.Game
	fmt.Stringer
}

func main() {
	params := RunParams{CFR: cfr.DefaultParams()}
	flag.StringVar(&params.Game, "game", "kuhn", "Game to solve: kuhn, publiccard, or twocard")
	flag.Int64Var(&params.Seed, "seed", time.Now().UnixNano(),
		"Random seed used to draw the public card (publiccard only)")
	flag.BoolVar(&params.LegacyCompare, "legacy_compare", false,
		"Compare showdown hands against player 1's hand (twocard only, asymmetric payoffs)")
	flag.StringVar(&params.Store, "store", "memory", "Infoset store: memory or leveldb")
	flag.StringVar(&params.LevelDBDir, "leveldb_dir", "",
		"Parent directory for the scratch leveldb store (default: system temp dir)")
	flag.BoolVar(&params.ListTerminals, "list_terminals", false,
		"Print every terminal history with its pot and payoffs, then exit")
	flag.StringVar(&params.SavePath, "save", "",
		"Write a snapshot of the trained infoset table to this path (memory store only)")
	flag.IntVar(&params.CFR.Iterations, "iter", params.CFR.Iterations, "Number of CFR iterations")
	flag.Float64Var(&params.CFR.PurificationThreshold, "threshold", params.CFR.PurificationThreshold,
		"Average strategy probabilities below this value are reported as zero")
	flag.IntVar(&params.CFR.LogInterval, "log_interval", params.CFR.LogInterval,
		"Log the running expected value every N iterations (at -v=1)")
	flag.Parse()

	if err := run(params); err != nil {
		glog.Fatal(err)
	}
}

func run(params RunParams) error {
	g, err := newGame(params)
	if err != nil {
		return err
	}

	if params.ListTerminals {
		return listTerminals(g)
	}

	store, closeStore, err := newStore(params)
	if err != nil {
		return err
	}
	defer closeStore()

	trainer, err := cfr.NewTrainer(g, store, params.CFR)
	if err != nil {
		return err
	}

	glog.Infof("Training %v for %d iterations", g, params.CFR.Iterations)
	start := time.Now()
	result := trainer.Train()
	glog.Infof("Finished in %v", time.Since(start))

	if params.SavePath != "" {
		if err := saveSnapshot(params.SavePath, store); err != nil {
			return err
		}
	}

	r := report.Build(g, result, store, params.CFR.PurificationThreshold)
	return render(r)
}

func newGame(params RunParams) (game, error) {
	switch params.Game {
	case "kuhn":
		return kuhn.NewGame(), nil
	case "publiccard":
		rng := rand.New(rand.NewSource(params.Seed))
		publicCard := cfr.Card(rng.Intn(3))
		glog.Infof("Seed %d drew public card %s", params.Seed, publiccard.CardString(publicCard))
		return publiccard.NewGame(publicCard)
	case "twocard":
		mode := twocard.Symmetric
		if params.LegacyCompare {
			mode = twocard.LegacyFixedOpponent
		}
		return twocard.NewGame(mode), nil
	}

	return nil, errors.Errorf("unknown game: %q", params.Game)
}

func newStore(params RunParams) (cfr.InfoSetStore, func(), error) {
	switch params.Store {
	case "memory":
		return cfr.NewStrategyTable(), func() {}, nil
	case "leveldb":
		if params.SavePath != "" {
			return nil, nil, errors.New("-save is only supported with the memory store")
		}

		st, err := ldbstore.NewTemp(params.LevelDBDir)
		if err != nil {
			return nil, nil, err
		}

		glog.Infof("Storing infosets in %s", st.Path())
		return st, func() {
			if err := st.Close(); err != nil {
				glog.Error(err)
			}
		}, nil
	}

	return nil, nil, errors.Errorf("unknown store: %q", params.Store)
}

func saveSnapshot(path string, store cfr.InfoSetStore) error {
	st, ok := store.(*cfr.StrategyTable)
	if !ok {
		return errors.Errorf("cannot snapshot store of type %T", store)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating snapshot")
	}

	if err := st.MarshalTo(f); err != nil {
		f.Close()
		return errors.Wrap(err, "writing snapshot")
	}

	glog.Infof("Saved %d infosets to %s", st.Len(), path)
	return errors.Wrap(f.Close(), "closing snapshot")
}

func listTerminals(g game) error {
	terminals, err := tree.Terminals(g)
	if err != nil {
		return err
	}

	deals := g.ChanceOutcomes()
	header := []string{"history", "pot"}
	for _, d := range deals {
		header = append(header, fmt.Sprintf("%d/%d", d.P0Card, d.P1Card))
	}

	data := pterm.TableData{header}
	for _, t := range terminals {
		row := []string{string(t.History), fmt.Sprintf("%g", t.Pot)}
		for _, u := range t.Utilities {
			row = append(row, fmt.Sprintf("%+g", u))
		}
		data = append(data, row)
	}

	pterm.DefaultSection.Printfln("%v: %d terminal histories", g, len(terminals))
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func render(r *report.Report) error {
	pterm.DefaultSection.Println(r.Game)
	pterm.Info.Printfln("iterations: %d", r.Iterations)
	for player, v := range r.Values {
		pterm.Info.Printfln("player %d expected value: %.6f", player+1, v)
	}

	for player, entries := range r.Strategies {
		pterm.DefaultSection.WithLevel(2).Printfln("player %d strategies", player+1)
		data := pterm.TableData{{"infoset", "average strategy"}}
		for _, e := range entries {
			data = append(data, []string{e.InfoSet, report.FormatStrategy(e)})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}

	return nil
}
