package orm

import (
	"testing"

	"github.com/iov-one/pswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiRefOrdering(t *testing.T) {
	m, err := NewMultiRef([]byte("c"), []byte("a"), []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)

	err = m.Add([]byte("b"))
	assert.True(t, errors.ErrDuplicate.Is(err))

	require.NoError(t, m.Remove([]byte("a")))
	err = m.Remove([]byte("a"))
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, [][]byte{[]byte("b"), []byte("c")}, m.Refs)
}

func TestMultiRefSerialization(t *testing.T) {
	m, err := NewMultiRef([]byte("first"), []byte("second"))
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	raw, err := m.Marshal()
	require.NoError(t, err)

	var got MultiRef
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, m.Refs, got.Refs)

	cpy := got.Copy().(*MultiRef)
	cpy.Refs[0] = []byte("changed")
	assert.Equal(t, []byte("first"), got.Refs[0])

	empty := &MultiRef{}
	assert.True(t, errors.ErrEmpty.Is(empty.Validate()))
}
