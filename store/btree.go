package store

import (
	"bytes"
	"sort"

	"github.com/google/btree"

	"github.com/helios-one/ledger/errors"
)

// treeItem is what we store in the btree overlay. A deleted key stays in the
// tree as a tombstone, so it can shadow the backing store on reads.
type treeItem struct {
	key     []byte
	value   []byte
	deleted bool
}

func lessItem(a, b treeItem) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// BTreeCacheWrap places a btree overlay over a read-only KVStore. All writes
// go to both the overlay and the batch; Write flushes the batch into the
// backing store, Discard drops everything.
type BTreeCacheWrap struct {
	bt    *btree.BTreeG[treeItem]
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a btree to cache around this kv store. Use
// ReadOnlyKVStore to emphasize that all writes must go through the batch.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch) *BTreeCacheWrap {
	return &BTreeCacheWrap{
		bt:    btree.NewG(2, lessItem),
		back:  kv,
		batch: batch,
	}
}

// MemStore returns a simple in-memory store. It is the test backend and
// holds all state in its own overlay.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, NewNonAtomicBatch(e))
}

// CacheWrap layers another btree overlay on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, NewNonAtomicBatch(b))
}

// Write syncs with the underlying store and invalidates this wrap.
func (b *BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard invalidates this cache wrap and releases all cached data.
func (b *BTreeCacheWrap) Discard() {
	b.bt.Clear(false)
}

// Set writes to the overlay and the batch.
func (b *BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(treeItem{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	return b.batch.Set(key, value)
}

// Delete marks a tombstone in the overlay and records in the batch.
func (b *BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(treeItem{
		key:     append([]byte(nil), key...),
		deleted: true,
	})
	return b.batch.Delete(key)
}

// Get reads from the overlay if there, else backing store.
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if item, ok := b.bt.Get(treeItem{key: key}); ok {
		if item.deleted {
			return nil, nil
		}
		return item.value, nil
	}
	return b.back.Get(key)
}

// Has reads from the overlay if there, else backing store.
func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if item, ok := b.bt.Get(treeItem{key: key}); ok {
		return !item.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator over a domain of keys in ascending order.
func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	return b.iterator(start, end, false)
}

// ReverseIterator over a domain of keys in descending order.
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	return b.iterator(start, end, true)
}

// iterator merges the overlay with the backing store. The merged set is
// materialized; the stores this wraps are either in memory or already
// snapshot-consistent, so there is no benefit in lazy iteration.
func (b *BTreeCacheWrap) iterator(start, end []byte, reverse bool) (Iterator, error) {
	merged := make(map[string]treeItem)

	iter, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "backing iterator")
	}
	defer iter.Release()
	for {
		key, value, err := iter.Next()
		if err != nil {
			if errors.ErrIteratorDone.Is(err) {
				break
			}
			return nil, err
		}
		merged[string(key)] = treeItem{key: key, value: value}
	}

	visit := func(item treeItem) bool {
		merged[string(item.key)] = item
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(visit)
	case start == nil:
		b.bt.AscendLessThan(treeItem{key: end}, visit)
	case end == nil:
		b.bt.AscendGreaterOrEqual(treeItem{key: start}, visit)
	default:
		b.bt.AscendRange(treeItem{key: start}, treeItem{key: end}, visit)
	}

	models := make([]Model, 0, len(merged))
	for _, item := range merged {
		if item.deleted {
			continue
		}
		models = append(models, Model{Key: item.key, Value: item.value})
	}
	sort.Slice(models, func(i, j int) bool {
		res := bytes.Compare(models[i].Key, models[j].Key)
		if reverse {
			return res > 0
		}
		return res < 0
	})
	return NewSliceIterator(models), nil
}

// EmptyKVStore never holds any data. It is the bottom of every in-memory
// store stack.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }

func (EmptyKVStore) Has(key []byte) (bool, error) { return false, nil }

func (EmptyKVStore) Set(key, value []byte) error { return nil }

func (EmptyKVStore) Delete(key []byte) error { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}
