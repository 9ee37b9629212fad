package store

import (
	"github.com/helios-one/ledger/errors"
)

// Model groups a key and its value, as returned by iteration.
type Model struct {
	Key   []byte
	Value []byte
}

// sliceIterator wraps an iterator over a materialized set of models.
type sliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*sliceIterator)(nil)

// NewSliceIterator creates an iterator over the given models. The caller
// must ensure they are already in the desired order.
func NewSliceIterator(data []Model) Iterator {
	return &sliceIterator{data: data}
}

func (s *sliceIterator) Next() ([]byte, []byte, error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	val := s.data[s.idx]
	s.idx++
	return val.Key, val.Value, nil
}

func (s *sliceIterator) Release() {
	s.data = nil
	s.idx = 0
}
