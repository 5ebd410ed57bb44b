package cfr

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Result summarizes a completed training run.
type Result struct {
	Iterations int
	// ExpectedValue is player 0's expected game value, averaged over
	// all iterations.
	ExpectedValue float64
}

// PlayerValue returns the expected game value for the given player.
func (r Result) PlayerValue(player int) float64 {
	if player == 0 {
		return r.ExpectedValue
	}

	return -1 * r.ExpectedValue
}

// Trainer runs CFR self-play for a fixed number of iterations.
type Trainer struct {
	params Params
	game   Game
	store  InfoSetStore
	cfr    *CFR

	// Totals over every call to Train.
	iterations int
	valueSum   float64
}

// NewTrainer returns a Trainer for game that accumulates into store.
func NewTrainer(game Game, store InfoSetStore, params Params) (*Trainer, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid params")
	}

	if root := game.Root(); len(root)%2 != 0 {
		return nil, errors.Errorf("root history %q must have even length", root)
	} else if game.IsChance(root) {
		return nil, errors.Errorf("root history %q is a chance node", root)
	}

	if err := checkChanceOutcomes(game.ChanceOutcomes()); err != nil {
		return nil, err
	}

	return &Trainer{
		params: params,
		game:   game,
		store:  store,
		cfr:    New(game, store),
	}, nil
}

// Train runs the configured number of iterations. Calling Train again
// continues from the accumulated state, and the returned Result covers every
// iteration run so far.
func (t *Trainer) Train() Result {
	for i := 0; i < t.params.Iterations; i++ {
		t.valueSum += t.cfr.Run()
		t.iterations++
		if t.params.LogInterval > 0 && t.iterations%t.params.LogInterval == 0 {
			glog.V(1).Infof("[iter=%d] Expected game value: %.4f (%d infosets)",
				t.iterations, t.valueSum/float64(t.iterations), t.store.Len())
		}
	}

	glog.Infof("Trained %d iterations, %d infosets", t.iterations, t.store.Len())
	return Result{
		Iterations:    t.iterations,
		ExpectedValue: t.valueSum / float64(t.iterations),
	}
}

// AverageStrategy returns the reported average strategy at the given
// information set, or nil if it was never visited.
func (t *Trainer) AverageStrategy(key string) []float64 {
	is, ok := t.store.Lookup(key)
	if !ok {
		return nil
	}

	return is.AverageStrategy(t.params.PurificationThreshold)
}

const probabilityTolerance = 1e-9

func checkChanceOutcomes(deals []Deal) error {
	if len(deals) == 0 {
		return errors.New("game has no chance outcomes")
	}

	var total float64
	for _, d := range deals {
		if d.Probability < 0 {
			return errors.Errorf("deal %v has negative probability", d)
		}
		total += d.Probability
	}

	if total < 1-probabilityTolerance || total > 1+probabilityTolerance {
		return errors.Errorf("chance outcome probabilities sum to %v, not 1", total)
	}

	return nil
}
