package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/pswap/errors"
)

// cacheIterator joins the items of a cache wrap with those of the parent,
// taking into consideration overwrites and deletes.
type cacheIterator struct {
	items []btree.Item
	idx   int

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []btree.Item, parent Iterator) (*cacheIterator, error) {
	iter := &cacheIterator{
		items:  items,
		parent: parent,
	}
	if err := iter.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return iter, nil
}

// Next returns the lowest key not returned yet. Items deleted in the cache
// hide the parent items with the same key.
func (i *cacheIterator) Next() ([]byte, []byte, error) {
	for {
		if i.idx >= len(i.items) {
			if i.parentDone {
				return nil, nil, errors.ErrIteratorDone
			}
			return i.popParent()
		}

		own := i.items[i.idx].(keyer)
		if !i.parentDone {
			switch cmp := bytes.Compare(i.parentKey, own.Key()); {
			case cmp < 0:
				return i.popParent()
			case cmp == 0:
				// Parent value is shadowed by the cache.
				if err := i.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
		}

		i.idx++
		if item, ok := own.(setItem); ok {
			return item.key, item.value, nil
		}
	}
}

func (i *cacheIterator) popParent() ([]byte, []byte, error) {
	key, value := i.parentKey, i.parentVal
	if err := i.advanceParent(); err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

func (i *cacheIterator) advanceParent() error {
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.parentKey, i.parentVal = key, value
		return nil
	case errors.ErrIteratorDone.Is(err):
		i.parentKey, i.parentVal = nil, nil
		i.parentDone = true
		return nil
	default:
		return errors.Wrap(err, "parent iterator")
	}
}

// Release releases the Iterator.
func (i *cacheIterator) Release() {
	i.parent.Release()
	i.items = nil
}
