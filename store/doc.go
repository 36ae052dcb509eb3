/*
Package store provides the abstractions behind every persistence
layer in curio, along with an in-memory implementation backed by
a btree, suitable for tests and for caching writes before an
atomic commit.

The KVStore interface is how all application code reads and writes
state. CacheableKVStore adds the ability to wrap the store with a
cache layer that can either be written to the parent in one batch,
or discarded entirely. This is what gives each transaction its
all-or-nothing behavior.
*/
package store
