package ledger

// Defines all public interfaces for interacting with stores.
//
// KVStore/Iterator are the basic objects to use in all extension code.

// ReadOnlyKVStore is a simple interface to read data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is exclusive.
	// Start must be less than end, or the Iterator is invalid.
	// CONTRACT: No writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator is like Iterator but in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore is a simple interface to get/set data. All backing stores must
// implement at least this interface.
type KVStore interface {
	ReadOnlyKVStore

	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error
}

// Iterator allows us to access a set of items within a range of keys. These
// may all be preloaded, or loaded on demand.
//
//	var itr Iterator = ...
//	defer itr.Release()
//
//	for {
//	    k, v, err := itr.Next()
//	    if err != nil { break }  // errors.ErrIteratorDone marks the end
//	    ...
//	}
type Iterator interface {
	// Next moves the iterator to the next sequential key in the database.
	// It returns errors.ErrIteratorDone when the iterator is exhausted.
	Next() (key, value []byte, err error)

	// Release frees the iterator.
	Release()
}

// SetDeleter is a minimal interface for writing, with no reads. It is
// satisfied by batches as well as by KVStore itself.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Batch groups writes to be committed together.
type Batch interface {
	SetDeleter
	// Write flushes the batch to the underlying store.
	Write() error
}

// CacheableKVStore is a KVStore that supports cache wrapping.
//
// CacheWrap should not return a committer, since Commit on cache wraps makes
// no sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of uncommitted data visible to all queries.
// At the end, call Write to apply the cached writes, or Discard to drop them.
// This is how operations stay all-or-nothing: a handler runs against a cache
// wrap and a failed operation is discarded as a whole.
type KVCacheWrap interface {
	// CacheableKVStore allows us to use this cache recursively.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this cache wrap and releases all data.
	Discard()
}
