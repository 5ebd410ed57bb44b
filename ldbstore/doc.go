// Package ldbstore implements a cfr.InfoSetStore that keeps information set
// records on disk in a LevelDB database, rather than in memory.
//
// It is substantially slower than cfr.StrategyTable but its memory use does
// not grow with the number of information sets.
package ldbstore
