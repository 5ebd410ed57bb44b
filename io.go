package cfr

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// LoadStrategyTable reads a StrategyTable previously written with MarshalTo.
func LoadStrategyTable(r io.Reader) (*StrategyTable, error) {
	dec := gob.NewDecoder(r)
	var iter int
	if err := dec.Decode(&iter); err != nil {
		return nil, errors.Wrap(err, "decoding iteration")
	}

	var nInfoSets int
	if err := dec.Decode(&nInfoSets); err != nil {
		return nil, errors.Wrap(err, "decoding number of infosets")
	}

	infoSets := make(map[string]*InfoSet, nInfoSets)
	for i := 0; i < nInfoSets; i++ {
		var key string
		if err := dec.Decode(&key); err != nil {
			return nil, errors.Wrapf(err, "decoding key of infoset %d", i)
		}

		var buf []byte
		if err := dec.Decode(&buf); err != nil {
			return nil, errors.Wrapf(err, "decoding infoset %q", key)
		}

		is := &InfoSet{}
		if err := is.UnmarshalBinary(buf); err != nil {
			return nil, errors.Wrapf(err, "decoding infoset %q", key)
		}

		infoSets[key] = is
	}

	return &StrategyTable{
		infoSets: infoSets,
		iter:     iter,
	}, nil
}

// MarshalTo writes the StrategyTable to w in a form readable by LoadStrategyTable.
func (st *StrategyTable) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(st.iter); err != nil {
		return err
	}

	if err := enc.Encode(len(st.infoSets)); err != nil {
		return err
	}

	var err error
	st.Range(func(key string, is *InfoSet) bool {
		if err = enc.Encode(key); err != nil {
			return false
		}

		var buf []byte
		if buf, err = is.MarshalBinary(); err != nil {
			return false
		}

		err = enc.Encode(buf)
		return err == nil
	})

	return err
}
