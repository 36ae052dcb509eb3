package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/curio/errors"
)

// iterItem is what is sent over the channel from the
// btree walk goroutine
type iterItem struct {
	keyer
}

func (i iterItem) isSet() bool {
	_, ok := i.keyer.(setItem)
	return ok
}

// btreeIter walks over the btree in a goroutine, feeding
// items to a channel so the caller can consume them lazily
type btreeIter struct {
	read    <-chan iterItem
	stop    chan<- struct{}
	cur     iterItem
	valid   bool
	reverse bool
}

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	read := make(chan iterItem)
	stop := make(chan struct{})
	iter := &btreeIter{read: read, stop: stop}

	go func() {
		defer close(read)
		insert := func(item btree.Item) bool {
			select {
			case read <- iterItem{item.(keyer)}:
				return true
			case <-stop:
				return false
			}
		}
		if start == nil && end == nil {
			bt.Ascend(insert)
		} else if start == nil {
			bt.AscendLessThan(bkey{end}, insert)
		} else if end == nil {
			bt.AscendGreaterOrEqual(bkey{start}, insert)
		} else {
			bt.AscendRange(bkey{start}, bkey{end}, insert)
		}
	}()

	return iter.init()
}

func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	read := make(chan iterItem)
	stop := make(chan struct{})
	iter := &btreeIter{read: read, stop: stop, reverse: true}

	go func() {
		defer close(read)
		insert := func(item btree.Item) bool {
			select {
			case read <- iterItem{item.(keyer)}:
				return true
			case <-stop:
				return false
			}
		}
		if start == nil && end == nil {
			bt.Descend(insert)
		} else if start == nil {
			// end is exclusive, so zoom just below it
			bt.DescendLessOrEqual(bkeyLess{end}, insert)
		} else if end == nil {
			bt.DescendGreaterThan(bkeyLess{start}, insert)
		} else {
			bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
		}
	}()

	return iter.init()
}

// init loads the first item, so cur is set before any use
func (b *btreeIter) init() *btreeIter {
	b.advance()
	return b
}

func (b *btreeIter) advance() {
	cur, hasMore := <-b.read
	b.cur = cur
	b.valid = hasMore
}

func (b *btreeIter) close() {
	if b.stop != nil {
		close(b.stop)
		b.stop = nil
	}
}

// wrap combines the btree iterator with a parent iterator over
// the backing store, merging both streams in proper order
func (b *btreeIter) wrap(parent Iterator, reverse bool) (Iterator, error) {
	iter := &itemIter{
		wrap:       b,
		parent:     parent,
		parentDone: !parent.Valid(),
		reverse:    reverse,
	}
	if err := iter.skipAllDeleted(); err != nil {
		return nil, err
	}
	return iter, nil
}

type itemIter struct {
	wrap   *btreeIter
	parent Iterator
	// if parentDone is true, we have consumed the parent iterator
	parentDone bool
	reverse    bool
}

var _ Iterator = (*itemIter)(nil)

func (i *itemIter) Valid() bool {
	return i.wrap.valid || !i.parentDone
}

func (i *itemIter) Next() error {
	wk, pk := i.weight()
	switch {
	case wk == nil && pk == nil:
		return errors.Wrap(errors.ErrDatabase, "advancing exhausted iterator")
	case pk == nil:
		i.wrap.advance()
	case wk == nil:
		if err := i.parentNext(); err != nil {
			return err
		}
	default:
		cmp := bytes.Compare(wk, pk)
		if i.reverse {
			cmp = -cmp
		}
		if cmp <= 0 {
			// shadowed parent keys are skipped along with the cache entry
			if cmp == 0 {
				if err := i.parentNext(); err != nil {
					return err
				}
			}
			i.wrap.advance()
		} else {
			if err := i.parentNext(); err != nil {
				return err
			}
		}
	}
	return i.skipAllDeleted()
}

func (i *itemIter) Key() []byte {
	wk, pk := i.weight()
	if i.firstIsWrap(wk, pk) {
		return i.wrap.cur.Key()
	}
	return i.parent.Key()
}

func (i *itemIter) Value() []byte {
	wk, pk := i.weight()
	if i.firstIsWrap(wk, pk) {
		return i.wrap.cur.keyer.(setItem).value
	}
	return i.parent.Value()
}

func (i *itemIter) Close() {
	i.wrap.close()
	i.parent.Close()
}

// weight returns the keys from both sides, nil for an exhausted side
func (i *itemIter) weight() (wrapKey, parentKey []byte) {
	if i.wrap.valid {
		wrapKey = i.wrap.cur.Key()
	}
	if !i.parentDone {
		parentKey = i.parent.Key()
	}
	return wrapKey, parentKey
}

// firstIsWrap decides which side holds the next item to expose
func (i *itemIter) firstIsWrap(wk, pk []byte) bool {
	if wk == nil {
		return false
	}
	if pk == nil {
		return true
	}
	cmp := bytes.Compare(wk, pk)
	if i.reverse {
		cmp = -cmp
	}
	return cmp <= 0
}

// skipAllDeleted moves past deletion markers, consuming any
// parent entries they shadow
func (i *itemIter) skipAllDeleted() error {
	for {
		more, err := i.skipDeleted()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func (i *itemIter) skipDeleted() (bool, error) {
	if !i.wrap.valid || i.wrap.cur.isSet() {
		return false, nil
	}
	wk, pk := i.weight()
	if pk != nil {
		cmp := bytes.Compare(wk, pk)
		if i.reverse {
			cmp = -cmp
		}
		if cmp > 0 {
			return false, nil
		}
		if cmp == 0 {
			if err := i.parentNext(); err != nil {
				return false, err
			}
		}
	}
	i.wrap.advance()
	return true, nil
}

func (i *itemIter) parentNext() error {
	if err := i.parent.Next(); err != nil {
		return err
	}
	if !i.parent.Valid() {
		i.parentDone = true
	}
	return nil
}
