package orm

import (
	"reflect"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
)

// ModelBucket is implemented by buckets that operate on Models rather than
// Objects.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db curio.ReadOnlyKVStore, key []byte, dest Model) error

	// Put saves given model in the database under the given key.
	Put(db curio.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db curio.KVStore, key []byte) error

	// Has returns nil if an entity with given primary key exists, or
	// ErrNotFound.
	Has(db curio.ReadOnlyKVStore, key []byte) error

	// Register registers this buckets content to be accessible via query
	// requests under the given name.
	Register(name string, r curio.QueryRouter)
}

// NewModelBucket returns a ModelBucket instance backed by a Bucket.
func NewModelBucket(name string, m Model) ModelBucket {
	b := NewBucket(name, NewSimpleObj(nil, m))
	return &modelBucket{
		b:     b,
		model: reflect.TypeOf(m).Elem(),
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) Register(name string, r curio.QueryRouter) {
	mb.b.Register(name, r)
}

func (mb *modelBucket) One(db curio.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	res := obj.Value()

	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", res, dest)
	}

	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) Put(db curio.KVStore, key []byte, m Model) error {
	mTp := reflect.TypeOf(m)
	if mTp.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "model destination must be a pointer")
	}
	if mb.model != mTp.Elem() {
		return errors.Wrapf(errors.ErrType, "cannot store %T type in this bucket", m)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	obj := NewSimpleObj(key, m)
	if err := mb.b.Save(db, obj); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db curio.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Has(db curio.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		// empty key is never stored
		return errors.ErrNotFound
	}
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}
