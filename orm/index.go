package orm

import (
	"bytes"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
)

// Index is a secondary index of a bucket.
type Index interface {
	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db pswap.KVStore, prev Object, save Object) error

	// GetAt returns a list of all primary keys that are indexed under
	// given value.
	GetAt(db pswap.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given object. Returning
// a nil key excludes the object from the index.
type Indexer func(Object) ([]byte, error)

// compactIndex is an index implementation that stores all indexed entities as
// a set, serialized and stored under single key. This implmentation should be
// used only for small sized index collection.
//
// The value is one primary key (unique),
// Or a MultiRef of primary keys (!unique).
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
}

var _ Index = compactIndex{}

// NewIndex constructs an index.
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
func NewIndex(name string, indexer Indexer, unique bool) Index {
	return compactIndex{
		name:   name,
		id:     append([]byte(indexPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// Otherwise, it will check indexer(prev) and indexer(save)
// and make sure the key is now stored in the right location
func (i compactIndex) Update(db pswap.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		return i.insert(db, save)
	case save == nil:
		return i.remove(db, prev)
	default:
		return i.move(db, prev, save)
	}
}

// GetAt returns a list of all pk at that index (may be empty), or an error
func (i compactIndex) GetAt(db pswap.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	val, err := db.Get(i.indexKey(index))
	if err != nil {
		return nil, errors.Wrap(err, "db get")
	}
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var data MultiRef
	if err := data.Unmarshal(val); err != nil {
		return nil, errors.Wrap(err, "unmarshal index")
	}
	return data.Refs, nil
}

func (i compactIndex) move(db pswap.KVStore, prev Object, save Object) error {
	// if the primary key is not equal, we have a problem
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrInvalidInput, "cannot modify the primary key of an object")
	}

	oldKey, err := i.index(prev)
	if err != nil {
		return err
	}
	newKey, err := i.index(save)
	if err != nil {
		return err
	}

	// check if the index has changed at all
	if bytes.Equal(oldKey, newKey) {
		return nil
	}
	if oldKey != nil {
		if err := i.removeRef(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	if newKey != nil {
		return i.addRef(db, newKey, save.Key())
	}
	return nil
}

func (i compactIndex) insert(db pswap.KVStore, save Object) error {
	key, err := i.index(save)
	if err != nil || key == nil {
		return err
	}
	return i.addRef(db, key, save.Key())
}

func (i compactIndex) remove(db pswap.KVStore, prev Object) error {
	key, err := i.index(prev)
	if err != nil || key == nil {
		return err
	}
	return i.removeRef(db, key, prev.Key())
}

func (i compactIndex) addRef(db pswap.KVStore, index []byte, pk []byte) error {
	dbkey := i.indexKey(index)
	cur, err := db.Get(dbkey)
	if err != nil {
		return errors.Wrap(err, "db get")
	}

	if i.unique {
		if cur != nil {
			return errors.Wrapf(ErrUniqueConstraint, "%s: %X", i.name, index)
		}
		return db.Set(dbkey, pk)
	}

	var data MultiRef
	if cur != nil {
		if err := data.Unmarshal(cur); err != nil {
			return errors.Wrap(err, "unmarshal index")
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}
	raw, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, raw)
}

func (i compactIndex) removeRef(db pswap.KVStore, index []byte, pk []byte) error {
	dbkey := i.indexKey(index)
	cur, err := db.Get(dbkey)
	if err != nil {
		return errors.Wrap(err, "db get")
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s: cannot remove index reference", i.name)
	}

	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrInvalidState, "%s: index points to %X", i.name, cur)
		}
		return db.Delete(dbkey)
	}

	var data MultiRef
	if err := data.Unmarshal(cur); err != nil {
		return errors.Wrap(err, "unmarshal index")
	}
	if err := data.Remove(pk); err != nil {
		return err
	}
	if len(data.Refs) == 0 {
		return db.Delete(dbkey)
	}
	raw, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, raw)
}
