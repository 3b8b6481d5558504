package store

import (
	"bytes"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
)

// mergedIterator combines the cached writes of a BTreeCacheWrap with the
// iterator of the store beneath. Cached items take precedence over the
// parent values and a deleted item hides the parent entry.
type mergedIterator struct {
	items     []keyer
	idx       int
	parent    revsplit.Iterator
	ascending bool

	valid bool
	key   []byte
	value []byte
}

var _ revsplit.Iterator = (*mergedIterator)(nil)

func newMergedIterator(items []keyer, parent revsplit.Iterator, ascending bool) (*mergedIterator, error) {
	it := &mergedIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.advance(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// advance moves the cursor to the next visible entry.
func (it *mergedIterator) advance() error {
	for {
		hasItem := it.idx < len(it.items)
		hasParent := it.parent.Valid()

		if !hasItem && !hasParent {
			it.valid = false
			return nil
		}

		if hasParent {
			cmp := -1
			if hasItem {
				cmp = bytes.Compare(it.parent.Key(), it.items[it.idx].Key())
				if !it.ascending {
					cmp = -cmp
				}
			}
			switch {
			case cmp < 0:
				it.key, it.value = it.parent.Key(), it.parent.Value()
				it.valid = true
				return it.parent.Next()
			case cmp == 0:
				// Shadowed by the cache.
				if err := it.parent.Next(); err != nil {
					return err
				}
			}
		}

		item := it.items[it.idx]
		it.idx++
		if set, ok := item.(setItem); ok {
			it.key, it.value = set.Key(), set.value
			it.valid = true
			return nil
		}
	}
}

func (it *mergedIterator) Valid() bool {
	return it.valid
}

func (it *mergedIterator) Next() error {
	if !it.valid {
		return errors.Wrap(errors.ErrDatabase, "iterator is not valid")
	}
	return it.advance()
}

func (it *mergedIterator) Key() []byte {
	if !it.valid {
		panic("read after end of iterator")
	}
	return it.key
}

func (it *mergedIterator) Value() []byte {
	if !it.valid {
		panic("read after end of iterator")
	}
	return it.value
}

func (it *mergedIterator) Close() {
	it.parent.Close()
	it.items = nil
	it.valid = false
}
