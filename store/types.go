package store

import "github.com/iov-one/curio"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = curio.ReadOnlyKVStore
type KVStore = curio.KVStore
type SetDeleter = curio.SetDeleter
type Batch = curio.Batch
type Iterator = curio.Iterator
type CacheableKVStore = curio.CacheableKVStore
type KVCacheWrap = curio.KVCacheWrap
type Model = curio.Model
