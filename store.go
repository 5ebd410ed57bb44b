package cfr

import (
	"fmt"
	"sort"

	"github.com/golang/glog"
)

// InfoSetStore owns the InfoSet record of every information set visited
// during training. The CFR engine reads a record with Get, updates it, and
// writes it back with Put once per visit.
type InfoSetStore interface {
	// Get returns the record for key, creating one with the uniform strategy
	// over actions if the key has never been seen.
	Get(key string, actions []Action) *InfoSet
	// Lookup returns the record for key, or false if it has never been seen.
	Lookup(key string) (*InfoSet, bool)
	// Put writes back a record previously returned by Get.
	Put(key string, is *InfoSet)
	// Update calls NextStrategy on every record. It must be called once after
	// each full traversal of the game tree and never during one.
	Update()
	// Range calls fn for every record in lexicographic key order until fn
	// returns false.
	Range(fn func(key string, is *InfoSet) bool)
	// Len returns the number of records in the store.
	Len() int
}

// StrategyTable implements InfoSetStore by holding every InfoSet in memory,
// looked up by its information set key.
type StrategyTable struct {
	infoSets map[string]*InfoSet
	iter     int
}

var _ InfoSetStore = &StrategyTable{}

// NewStrategyTable returns an empty StrategyTable.
func NewStrategyTable() *StrategyTable {
	return &StrategyTable{
		infoSets: make(map[string]*InfoSet),
		iter:     1,
	}
}

// Get implements InfoSetStore.
func (st *StrategyTable) Get(key string, actions []Action) *InfoSet {
	is, ok := st.infoSets[key]
	if !ok {
		is = NewInfoSet(actions)
		st.infoSets[key] = is
		if len(st.infoSets)%100000 == 0 {
			glog.V(2).Infof("%d infosets", len(st.infoSets))
		}
	}

	CheckNumActions(key, is, actions)
	return is
}

// Lookup implements InfoSetStore.
func (st *StrategyTable) Lookup(key string) (*InfoSet, bool) {
	is, ok := st.infoSets[key]
	return is, ok
}

// Put implements InfoSetStore.
func (st *StrategyTable) Put(key string, is *InfoSet) {
	st.infoSets[key] = is
}

// Update implements InfoSetStore.
func (st *StrategyTable) Update() {
	glog.V(3).Infof("[iter=%d] Updating %d infosets", st.iter, len(st.infoSets))
	for _, is := range st.infoSets {
		is.NextStrategy()
	}

	st.iter++
}

// Range implements InfoSetStore.
func (st *StrategyTable) Range(fn func(key string, is *InfoSet) bool) {
	keys := make([]string, 0, len(st.infoSets))
	for key := range st.infoSets {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	for _, key := range keys {
		if !fn(key, st.infoSets[key]) {
			return
		}
	}
}

// Len implements InfoSetStore.
func (st *StrategyTable) Len() int {
	return len(st.infoSets)
}

// Iter returns the number of completed updates plus one.
func (st *StrategyTable) Iter() int {
	return st.iter
}

// CheckNumActions panics if is was created with a different number of
// actions than are legal at the node being visited.
func CheckNumActions(key string, is *InfoSet, actions []Action) {
	if is.NumActions() != len(actions) {
		panic(fmt.Errorf("infoset %q has n_actions=%v but node has %v legal actions",
			key, is.NumActions(), len(actions)))
	}
}
