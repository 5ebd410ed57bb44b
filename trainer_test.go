package cfr

import (
	"bytes"
	"math"
	"testing"
)

func TestParams_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"default", DefaultParams(), false},
		{"single iteration", Params{Iterations: 1}, false},
		{"zero iterations", Params{Iterations: 0}, true},
		{"negative threshold", Params{Iterations: 1, PurificationThreshold: -0.1}, true},
		{"threshold of one", Params{Iterations: 1, PurificationThreshold: 1}, true},
		{"negative log interval", Params{Iterations: 1, LogInterval: -1}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("expected error: %v, got %v", tc.wantErr, err)
			}
		})
	}
}

type oddRootGame struct{ twoStepGame }

func (oddRootGame) Root() History { return "r" }

type badChanceGame struct{ twoStepGame }

func (badChanceGame) ChanceOutcomes() []Deal {
	return []Deal{{P0Card: 0, P1Card: 1, Probability: 0.5}}
}

func TestNewTrainer_RejectsInvalidGames(t *testing.T) {
	params := Params{Iterations: 1}
	if _, err := NewTrainer(oddRootGame{}, NewStrategyTable(), params); err == nil {
		t.Error("expected error for odd-length root history")
	}

	if _, err := NewTrainer(badChanceGame{}, NewStrategyTable(), params); err == nil {
		t.Error("expected error for chance probabilities not summing to 1")
	}

	if _, err := NewTrainer(twoStepGame{}, NewStrategyTable(), Params{}); err == nil {
		t.Error("expected error for zero iterations")
	}
}

func TestTrainer_ZeroSum(t *testing.T) {
	for _, nIter := range []int{1, 2, 3, 7, 100} {
		store := NewStrategyTable()
		trainer, err := NewTrainer(twoStepGame{}, store, Params{
			Iterations:            nIter,
			PurificationThreshold: DefaultPurificationThreshold,
		})
		if err != nil {
			t.Fatal(err)
		}

		result := trainer.Train()
		if result.Iterations != nIter {
			t.Errorf("expected %d iterations, got %d", nIter, result.Iterations)
		}
		if result.PlayerValue(1) != -result.PlayerValue(0) {
			t.Errorf("[iter=%d] player values %v and %v are not zero-sum",
				nIter, result.PlayerValue(0), result.PlayerValue(1))
		}

		store.Range(func(key string, is *InfoSet) bool {
			strat := trainer.AverageStrategy(key)
			var total float64
			for _, p := range strat {
				if p < 0 || math.IsNaN(p) {
					t.Errorf("[iter=%d] %s: invalid probability in %v", nIter, key, strat)
				}
				total += p
			}
			if math.Abs(total-1) > 1e-6 {
				t.Errorf("[iter=%d] %s: strategy %v sums to %v", nIter, key, strat, total)
			}
			return true
		})
	}
}

func TestTrainer_TrainAccumulates(t *testing.T) {
	params := Params{Iterations: 3}
	twice, err := NewTrainer(twoStepGame{}, NewStrategyTable(), params)
	if err != nil {
		t.Fatal(err)
	}
	twice.Train()
	result := twice.Train()

	params.Iterations = 6
	once, err := NewTrainer(twoStepGame{}, NewStrategyTable(), params)
	if err != nil {
		t.Fatal(err)
	}
	expected := once.Train()

	if result.Iterations != 6 {
		t.Errorf("expected 6 iterations, got %d", result.Iterations)
	}
	if math.Abs(result.ExpectedValue-expected.ExpectedValue) > 1e-12 {
		t.Errorf("expected value %v after two calls, got %v", expected.ExpectedValue, result.ExpectedValue)
	}
}

func TestStrategyTable_Lookup(t *testing.T) {
	store := NewStrategyTable()
	if _, ok := store.Lookup("0 rr"); ok {
		t.Error("expected lookup of unseen key to fail")
	}

	created := store.Get("0 rr", []Action{left, right})
	is, ok := store.Lookup("0 rr")
	if !ok || is != created {
		t.Errorf("expected lookup to return the stored record, got %v, %v", is, ok)
	}
	if store.Len() != 1 {
		t.Errorf("expected lookup not to create records, got %d", store.Len())
	}
}

func TestTrainer_AverageStrategy(t *testing.T) {
	trainer, err := NewTrainer(twoStepGame{}, NewStrategyTable(), Params{
		Iterations:            100,
		PurificationThreshold: DefaultPurificationThreshold,
	})
	if err != nil {
		t.Fatal(err)
	}

	trainer.Train()
	if s := trainer.AverageStrategy("1 rr"); len(s) != 2 || s[0] < 0.9 {
		t.Errorf("expected strategy favoring left, got %v", s)
	}

	if s := trainer.AverageStrategy("no such infoset"); s != nil {
		t.Errorf("expected nil for unknown infoset, got %v", s)
	}
}

func TestStrategyTable_LoadSave(t *testing.T) {
	store := NewStrategyTable()
	c := New(twoStepGame{}, store)
	for i := 0; i < 10; i++ {
		c.Run()
	}

	var buf bytes.Buffer
	if err := store.MarshalTo(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadStrategyTable(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != store.Len() || loaded.Iter() != store.Iter() {
		t.Fatalf("expected %d infosets at iter %d, got %d at iter %d",
			store.Len(), store.Iter(), loaded.Len(), loaded.Iter())
	}

	store.Range(func(key string, is *InfoSet) bool {
		prev := is.AverageStrategy(DefaultPurificationThreshold)
		strat := loaded.Get(key, is.Actions).AverageStrategy(DefaultPurificationThreshold)
		for i := range prev {
			if strat[i] != prev[i] {
				t.Errorf("%s: failed to reload strategy: expected %v, got %v", key, prev, strat)
				break
			}
		}
		return true
	})
}
