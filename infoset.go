package cfr

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultPurificationThreshold is the average strategy probability below
// which an action is considered noise and zeroed when reporting.
const DefaultPurificationThreshold = 0.001

// InfoSet is the learning state accumulated for one information set.
type InfoSet struct {
	// Actions available at this information set, in vector order.
	Actions []Action

	RegretSum   []float64
	StrategySum []float64
	// Strategy is the regret-matched strategy played during the current
	// iteration. It only changes in NextStrategy.
	Strategy []float64

	// ReachProb accumulates the acting player's reach probability over
	// all visits in the current iteration.
	ReachProb    float64
	ReachProbSum float64
}

// NewInfoSet returns a record for an information set with the given actions,
// playing the uniform strategy.
func NewInfoSet(actions []Action) *InfoSet {
	n := len(actions)
	return &InfoSet{
		Actions:     append([]Action(nil), actions...),
		RegretSum:   make([]float64, n),
		StrategySum: make([]float64, n),
		Strategy:    uniformDist(n),
	}
}

// NumActions returns the number of actions at this information set.
func (is *InfoSet) NumActions() int {
	return len(is.RegretSum)
}

// AddRegret accumulates instantaneous regrets weighted by the
// counterfactual reach probability w.
func (is *InfoSet) AddRegret(w float64, instantaneousRegrets []float64) {
	floats.AddScaled(is.RegretSum, w, instantaneousRegrets)
}

// AddReachProb records one visit reached with probability p by the acting player.
func (is *InfoSet) AddReachProb(p float64) {
	is.ReachProb += p
}

// NextStrategy folds this iteration's reach-weighted strategy into the
// strategy sum and recomputes the current strategy from accumulated regret.
// It must only be called between iterations.
func (is *InfoSet) NextStrategy() {
	floats.AddScaled(is.StrategySum, is.ReachProb, is.Strategy)
	CalcStrategy(is.Strategy, is.RegretSum)
	is.ReachProbSum += is.ReachProb
	is.ReachProb = 0.0
}

// AverageStrategy returns the time-averaged strategy. Probabilities below
// threshold are zeroed and the remainder renormalized. If the information set
// was never reached the uniform distribution is returned.
func (is *InfoSet) AverageStrategy(threshold float64) []float64 {
	n := is.NumActions()
	if is.ReachProbSum <= 0 {
		return uniformDist(n)
	}

	avgStrat := make([]float64, n)
	floats.ScaleTo(avgStrat, 1.0/is.ReachProbSum, is.StrategySum)
	for i, p := range avgStrat {
		if p < threshold {
			avgStrat[i] = 0.0
		}
	}

	total := floats.Sum(avgStrat)
	if total <= 0 {
		return uniformDist(n)
	}

	for i := range avgStrat {
		avgStrat[i] /= total
	}

	return avgStrat
}

// CalcStrategy performs regret matching: dst is set to the positive part of
// regretSum normalized to sum to 1, or to the uniform distribution if no
// action has positive regret.
func CalcStrategy(dst, regretSum []float64) []float64 {
	copy(dst, regretSum)
	makePositive(dst)
	total := floats.Sum(dst)
	if total > 0 {
		floats.Scale(1.0/total, dst)
	} else {
		p := 1.0 / float64(len(dst))
		for i := range dst {
			dst[i] = p
		}
	}

	return dst
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (is *InfoSet) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(is.Actions); err != nil {
		return nil, err
	}

	if err := enc.Encode(is.RegretSum); err != nil {
		return nil, err
	}

	if err := enc.Encode(is.StrategySum); err != nil {
		return nil, err
	}

	if err := enc.Encode(is.Strategy); err != nil {
		return nil, err
	}

	if err := enc.Encode(is.ReachProb); err != nil {
		return nil, err
	}

	if err := enc.Encode(is.ReachProbSum); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (is *InfoSet) UnmarshalBinary(buf []byte) error {
	r := bytes.NewReader(buf)
	dec := gob.NewDecoder(r)

	var actions []Action
	if err := dec.Decode(&actions); err != nil {
		return err
	}

	var regretSum []float64
	if err := dec.Decode(&regretSum); err != nil {
		return err
	}

	var strategySum []float64
	if err := dec.Decode(&strategySum); err != nil {
		return err
	}

	// The current strategy lags RegretSum within an iteration,
	// so it cannot be recomputed here.
	var strategy []float64
	if err := dec.Decode(&strategy); err != nil {
		return err
	}

	if err := dec.Decode(&is.ReachProb); err != nil {
		return err
	}

	if err := dec.Decode(&is.ReachProbSum); err != nil {
		return err
	}

	n := len(actions)
	if len(regretSum) != n || len(strategySum) != n || len(strategy) != n {
		return fmt.Errorf("infoset has %d actions but vectors of length %d, %d, %d",
			n, len(regretSum), len(strategySum), len(strategy))
	}

	is.Actions = actions
	is.RegretSum = regretSum
	is.StrategySum = strategySum
	is.Strategy = strategy
	return nil
}

func uniformDist(n int) []float64 {
	result := make([]float64, n)
	p := 1.0 / float64(n)
	for i := range result {
		result[i] = p
	}
	return result
}

func makePositive(v []float64) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}
