package utils

import (
	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
)

// Savepoint runs the wrapped handler against a cache of the store and
// only writes the cache back when the handler succeeds. A failing
// transaction leaves no partial writes behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ curio.Decorator = Savepoint{}

// NewSavepoint creates an inactive Savepoint decorator. Activate it
// with OnCheck or OnDeliver.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that triggers on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that triggers on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check implements Decorator, caching writes when triggered
func (s Savepoint) Check(ctx curio.Context, store curio.KVStore, tx curio.Tx, next curio.Checker) (*curio.CheckResult, error) {
	cache, ok := cacheOf(store, s.onCheck)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := settle(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver implements Decorator, caching writes when triggered
func (s Savepoint) Deliver(ctx curio.Context, store curio.KVStore, tx curio.Tx, next curio.Deliverer) (*curio.DeliverResult, error) {
	cache, ok := cacheOf(store, s.onDeliver)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := settle(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

// cacheOf wraps the store in a scratch cache. It reports false when
// the savepoint is not triggered or the store cannot be cached, in
// which case the handler runs directly against the store.
func cacheOf(store curio.KVStore, active bool) (curio.KVCacheWrap, bool) {
	if !active {
		return nil, false
	}
	cstore, ok := store.(curio.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cstore.CacheWrap(), true
}

// settle commits the cache on success and discards it on failure
func settle(cache curio.KVCacheWrap, err error) error {
	if err != nil {
		cache.Discard()
		return err
	}
	if werr := cache.Write(); werr != nil {
		return errors.Wrap(werr, "writing savepoint")
	}
	return nil
}
