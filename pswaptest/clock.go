package pswaptest

import (
	"sync"
	"time"

	"github.com/iov-one/pswap"
)

// Clock is a pswap.Clock implementation that does not move unless told to.
// It is safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now pswap.UnixTime
}

var _ pswap.Clock = (*Clock)(nil)

// NewClock returns a clock showing given time.
func NewClock(now pswap.UnixTime) *Clock {
	return &Clock{now: now}
}

// Now returns the current time of the clock.
func (c *Clock) Now() pswap.UnixTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set changes the current time of the clock.
func (c *Clock) Set(now pswap.UnixTime) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Advance moves the clock forward by given duration.
func (c *Clock) Advance(d time.Duration) pswap.UnixTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
