package store

import "github.com/helios-one/ledger"

// Move references for all storage types into this package for shorter names
// everywhere.

type KVStore = ledger.KVStore
type ReadOnlyKVStore = ledger.ReadOnlyKVStore
type Iterator = ledger.Iterator
type Batch = ledger.Batch
type SetDeleter = ledger.SetDeleter
type CacheableKVStore = ledger.CacheableKVStore
type KVCacheWrap = ledger.KVCacheWrap
