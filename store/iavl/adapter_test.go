package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/pswap/store"
)

func iavlSuite() *store.TestSuite {
	return store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		s := MockCommitStore()
		return s, s.Close
	})
}

func TestIavlStoreGetSet(t *testing.T) {
	iavlSuite().GetSet(t)
}

func TestIavlStoreIterate(t *testing.T) {
	iavlSuite().Iterate(t)
}

func TestIavlCommitAndReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "pswap-iavl")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("swap"), []byte("data")))
	require.NoError(t, cache.Write())

	id, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)
	s.Close()

	reopened, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())

	latest, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)

	got, err := reopened.Get([]byte("swap"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}
