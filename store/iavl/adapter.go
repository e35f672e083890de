package iavl

import (
	"sync"

	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/store"
)

// DefaultCacheSize is the number of nodes the tree keeps in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	mu   sync.Mutex
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing. Data is kept in a
// goleveldb database called name inside of the dir directory.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
	}
	return newCommitStore(db), nil
}

// MockCommitStore creates a new in-memory store for testing.
func MockCommitStore() *CommitStore {
	return newCommitStore(dbm.NewMemDB())
}

func newCommitStore(db dbm.DB) *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(db, DefaultCacheSize),
		db:   db,
	}
}

// Get returns the value of the working tree.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, val := s.tree.Get(key)
	return val, nil
}

// Has checks if a key exists in the working tree.
func (s *CommitStore) Has(key []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Has(key), nil
}

// Set adds a new value to the working tree.
func (s *CommitStore) Set(key, value []byte) error {
	// The tree refuses nil values.
	if value == nil {
		value = []byte{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Set(key, value)
	return nil
}

// Delete removes from the working tree.
func (s *CommitStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Remove(key)
	return nil
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// The result is loaded into memory at once so writes that happen while the
// iterator is in use are not visible.
func (s *CommitStore) Iterator(start, end []byte) (store.Iterator, error) {
	var res []store.Model
	add := func(key []byte, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	}

	s.mu.Lock()
	s.tree.IterateRange(start, end, true, add)
	s.mu.Unlock()

	return store.NewSliceIterator(res), nil
}

// CacheWrap gives us a savepoint to perform actions. Writing the cache
// updates the working tree, Commit persists it.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, store.NewNonAtomicBatch(s), nil)
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Close releases the database handle.
func (s *CommitStore) Close() {
	s.db.Close()
}
