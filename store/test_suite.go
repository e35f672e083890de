package store

import (
	"testing"

	"github.com/iov-one/pswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite provides many methods that can be called in package-specific
// test code. We just customize the store being tested (pass in constructor),
// the rest of the logic is generic to the KVStore interface.
//
// This removes duplication between btree_test.go and iavl/adapter_test.go,
// but can be used for any implementation of CacheableKVStore.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores built by constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
//
// Other tests should handle deletes, setting same value,
// iterating over ranges, and general fuzzing
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	// make sure the store is empty at start but returns results
	// that are written to it
	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	require.NoError(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	s.AssertGetHas(t, c2, k, v, true)
	s.AssertGetHas(t, c2, k2, v2, true)
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()

	// and commit another
	c3 := base.CacheWrap()
	s.AssertGetHas(t, c3, k, v, true)
	s.AssertGetHas(t, c3, k2, v2, true)
	require.NoError(t, c3.Delete(k))
	require.NoError(t, c3.Write())

	// make sure it commits proper
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
	s.AssertGetHas(t, base, k3, nil, false)
}

// Iterate checks that range iteration over the cache combines the cached
// writes and deletes with the data of the base store.
func (s *TestSuite) Iterate(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Delete([]byte("e")))
	require.NoError(t, cache.Set([]byte("h"), []byte("cache-h")))

	cases := map[string]struct {
		start, end []byte
		want       []Model
	}{
		"full range": {
			want: []Model{
				Pair([]byte("a"), []byte("base-a")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("h"), []byte("cache-h")),
			},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("g"),
			want: []Model{
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("c"), []byte("cache-c")),
			},
		},
		"open end": {
			start: []byte("d"),
			want: []Model{
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("h"), []byte("cache-h")),
			},
		},
		"open start": {
			end: []byte("c"),
			want: []Model{
				Pair([]byte("a"), []byte("base-a")),
				Pair([]byte("b"), []byte("cache-b")),
			},
		},
		"empty range": {
			start: []byte("x"),
			end:   []byte("z"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			iter, err := cache.Iterator(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Collect(t, iter))
		})
	}
}

// Collect consumes the iterator and returns everything it produced.
func (s *TestSuite) Collect(t testing.TB, iter Iterator) []Model {
	t.Helper()
	defer iter.Release()

	var res []Model
	for {
		key, value, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, Pair(key, value))
	}
}

// AssertGetHas checks that Get and Has agree on the given key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}
