package ldbstore

import (
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/pokercfr"
)

// InfoSetTable is a tabular CFR store that keeps all information set records
// in a LevelDB database. InfoSetTable implements cfr.InfoSetStore.
//
// Storage errors during a walk cannot be recovered from, so InfoSetTable
// panics on them.
type InfoSetTable struct {
	path      string
	removeDir bool

	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
	n     int
}

var _ cfr.InfoSetStore = &InfoSetTable{}

// New creates a new InfoSetTable backed by a LevelDB database at the given
// path. The database must not already exist.
func New(path string, opts *opt.Options) (*InfoSetTable, error) {
	var o opt.Options
	if opts != nil {
		o = *opts
	}
	o.ErrorIfExist = true

	db, err := leveldb.OpenFile(path, &o)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at %s", path)
	}

	return &InfoSetTable{
		path: path,
		db:   db,
	}, nil
}

// NewTemp creates an InfoSetTable in a new temporary directory under dir
// (or the system default if dir is empty). The directory is removed by Close.
func NewTemp(dir string) (*InfoSetTable, error) {
	path, err := os.MkdirTemp(dir, "cfr-infosets-")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp dir")
	}

	// OpenFile accepts an existing empty directory.
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		os.RemoveAll(path)
		return nil, errors.Wrapf(err, "opening leveldb at %s", path)
	}

	return &InfoSetTable{
		path:      path,
		removeDir: true,
		db:        db,
	}, nil
}

// Path returns the directory of the underlying database.
func (t *InfoSetTable) Path() string {
	return t.path
}

// Close implements io.Closer.
func (t *InfoSetTable) Close() error {
	if err := t.db.Close(); err != nil {
		return errors.Wrap(err, "closing leveldb")
	}

	if t.removeDir {
		return errors.Wrap(os.RemoveAll(t.path), "removing leveldb dir")
	}

	return nil
}

// Get implements cfr.InfoSetStore.
func (t *InfoSetTable) Get(key string, actions []cfr.Action) *cfr.InfoSet {
	buf, err := t.db.Get([]byte(key), t.rOpts)
	if err == leveldb.ErrNotFound {
		is := cfr.NewInfoSet(actions)
		t.put([]byte(key), is)
		t.n++
		if t.n%100000 == 0 {
			glog.V(2).Infof("%d infosets", t.n)
		}
		return is
	} else if err != nil {
		panic(err)
	}

	is := &cfr.InfoSet{}
	if err := is.UnmarshalBinary(buf); err != nil {
		panic(errors.Wrapf(err, "decoding infoset %q", key))
	}

	cfr.CheckNumActions(key, is, actions)
	return is
}

// Lookup implements cfr.InfoSetStore.
func (t *InfoSetTable) Lookup(key string) (*cfr.InfoSet, bool) {
	buf, err := t.db.Get([]byte(key), t.rOpts)
	if err == leveldb.ErrNotFound {
		return nil, false
	} else if err != nil {
		panic(err)
	}

	is := &cfr.InfoSet{}
	if err := is.UnmarshalBinary(buf); err != nil {
		panic(errors.Wrapf(err, "decoding infoset %q", key))
	}

	return is, true
}

// Put implements cfr.InfoSetStore.
func (t *InfoSetTable) Put(key string, is *cfr.InfoSet) {
	t.put([]byte(key), is)
}

func (t *InfoSetTable) put(key []byte, is *cfr.InfoSet) {
	buf, err := is.MarshalBinary()
	if err != nil {
		panic(err)
	}

	if err := t.db.Put(key, buf, t.wOpts); err != nil {
		panic(err)
	}
}

// Update implements cfr.InfoSetStore.
func (t *InfoSetTable) Update() {
	iter := t.db.NewIterator(nil, t.rOpts)
	batch := new(leveldb.Batch)
	n := 0
	for iter.Next() {
		n++
		var is cfr.InfoSet
		if err := is.UnmarshalBinary(iter.Value()); err != nil {
			panic(err)
		}

		is.NextStrategy()
		buf, err := is.MarshalBinary()
		if err != nil {
			panic(err)
		}

		// The iterator owns Key's backing array.
		batch.Put(append([]byte(nil), iter.Key()...), buf)
	}

	iter.Release()
	if err := iter.Error(); err != nil {
		panic(err)
	}

	if err := t.db.Write(batch, t.wOpts); err != nil {
		panic(err)
	}

	glog.V(3).Infof("Updated %d infosets", n)
}

// Range implements cfr.InfoSetStore. LevelDB iterates in byte-wise key
// order, which is lexicographic order for string keys.
func (t *InfoSetTable) Range(fn func(key string, is *cfr.InfoSet) bool) {
	iter := t.db.NewIterator(nil, t.rOpts)
	defer iter.Release()
	for iter.Next() {
		var is cfr.InfoSet
		if err := is.UnmarshalBinary(iter.Value()); err != nil {
			panic(err)
		}

		if !fn(string(iter.Key()), &is) {
			break
		}
	}

	if err := iter.Error(); err != nil {
		panic(err)
	}
}

// Len implements cfr.InfoSetStore.
func (t *InfoSetTable) Len() int {
	return t.n
}
