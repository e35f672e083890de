package pswaptest

import (
	"testing"
	"time"

	"github.com/iov-one/pswap"
	"github.com/stretchr/testify/assert"
)

func TestAddresses(t *testing.T) {
	a, b := NewAddress(), NewAddress()
	assert.NoError(t, a.Validate())
	assert.False(t, a.Equals(b))

	assert.True(t, NamedAddress("alice").Equals(NamedAddress("alice")))
	assert.False(t, NamedAddress("alice").Equals(NamedAddress("bob")))

	parsed := ParseAddress(t, a.String())
	assert.True(t, a.Equals(parsed))
}

func TestClock(t *testing.T) {
	c := NewClock(1000)
	assert.Equal(t, pswap.UnixTime(1000), c.Now())
	assert.Equal(t, pswap.UnixTime(1060), c.Advance(time.Minute))
	c.Set(5)
	assert.Equal(t, pswap.UnixTime(5), c.Now())
}
