// Package report summarizes a trained strategy profile: the expected game
// value and the average strategy at every information set, by player.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/timpalpant/pokercfr"
)

// Entry is the reported average strategy at one information set.
type Entry struct {
	InfoSet  string
	Actions  []cfr.Action
	Strategy []float64
}

// Report is the outcome of a training run.
type Report struct {
	// Game describes the game that was solved.
	Game       string
	Iterations int
	// Values holds each player's expected game value.
	Values [2]float64
	// Strategies holds each player's information sets in key order.
	Strategies [2][]Entry
}

// Build collects the report for a completed run. Information sets are
// assigned to players by the parity of their key length.
func Build(game fmt.Stringer, result cfr.Result, store cfr.InfoSetStore, threshold float64) *Report {
	r := &Report{
		Iterations: result.Iterations,
		Values:     [2]float64{result.PlayerValue(0), result.PlayerValue(1)},
	}
	if game != nil {
		r.Game = game.String()
	}

	store.Range(func(key string, is *cfr.InfoSet) bool {
		player := len(key) % 2
		r.Strategies[player] = append(r.Strategies[player], Entry{
			InfoSet:  key,
			Actions:  append([]cfr.Action(nil), is.Actions...),
			Strategy: is.AverageStrategy(threshold),
		})
		return true
	})

	return r
}

// WriteTo implements io.WriterTo.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	if r.Game != "" {
		fmt.Fprintf(&sb, "game: %s\n", r.Game)
	}
	fmt.Fprintf(&sb, "iterations: %d\n", r.Iterations)
	for player, v := range r.Values {
		fmt.Fprintf(&sb, "player %d expected value: %.6f\n", player+1, v)
	}

	for player, entries := range r.Strategies {
		fmt.Fprintf(&sb, "\nplayer %d strategies:\n", player+1)
		for _, e := range entries {
			fmt.Fprintf(&sb, "%-8s %s\n", e.InfoSet, FormatStrategy(e))
		}
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// FormatStrategy renders an entry's strategy as "a=p b=q ...".
func FormatStrategy(e Entry) string {
	parts := make([]string, len(e.Strategy))
	for i, p := range e.Strategy {
		parts[i] = fmt.Sprintf("%s=%.2f", e.Actions[i], p)
	}

	return strings.Join(parts, " ")
}
