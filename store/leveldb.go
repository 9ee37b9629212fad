package store

import (
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/helios-one/ledger/errors"
)

// LevelStore is a durable CacheableKVStore backed by goleveldb. Each cache
// wrap flushes through a leveldb write batch, so one operation hits the disk
// as a single atomic write.
type LevelStore struct {
	db *leveldb.DB
}

var _ CacheableKVStore = (*LevelStore)(nil)

// OpenLevelStore opens (creating when missing) a leveldb database under the
// given directory.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %v", path, err)
	}
	return &LevelStore{db: db}, nil
}

// Close releases the underlying database. The store must not be used
// afterwards.
func (s *LevelStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "close: %v", err)
	}
	return nil
}

func (s *LevelStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if err == dberrors.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %v", err)
	}
	return value, nil
}

func (s *LevelStore) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %v", err)
	}
	return ok, nil
}

func (s *LevelStore) Set(key, value []byte) error {
	if err := s.db.Put(key, value, nil); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "put: %v", err)
	}
	return nil
}

func (s *LevelStore) Delete(key []byte) error {
	if err := s.db.Delete(key, nil); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "delete: %v", err)
	}
	return nil
}

func (s *LevelStore) Iterator(start, end []byte) (Iterator, error) {
	iter := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIterator{iter: iter}, nil
}

func (s *LevelStore) ReverseIterator(start, end []byte) (Iterator, error) {
	iter := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIterator{iter: iter, reverse: true}, nil
}

// CacheWrap returns a btree overlay whose Write flushes as one leveldb
// batch.
func (s *LevelStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, &levelBatch{db: s.db, batch: new(leveldb.Batch)})
}

// levelBatch adapts a leveldb write batch to the Batch interface.
type levelBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

var _ Batch = (*levelBatch)(nil)

func (b *levelBatch) Set(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelBatch) Write() error {
	if err := b.db.Write(b.batch, nil); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write batch: %v", err)
	}
	b.batch.Reset()
	return nil
}

// levelIterator adapts a leveldb iterator. The reverse form positions at the
// end and walks backwards.
type levelIterator struct {
	iter    iterator.Iterator
	reverse bool
	started bool
}

var _ Iterator = (*levelIterator)(nil)

func (it *levelIterator) Next() ([]byte, []byte, error) {
	var ok bool
	switch {
	case !it.started && it.reverse:
		ok = it.iter.Last()
	case !it.started:
		ok = it.iter.First()
	case it.reverse:
		ok = it.iter.Prev()
	default:
		ok = it.iter.Next()
	}
	it.started = true

	if !ok {
		if err := it.iter.Error(); err != nil {
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "iterator: %v", err)
		}
		return nil, nil, errors.ErrIteratorDone
	}
	key := append([]byte(nil), it.iter.Key()...)
	value := append([]byte(nil), it.iter.Value()...)
	return key, value, nil
}

func (it *levelIterator) Release() {
	it.iter.Release()
}
