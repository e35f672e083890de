package lock

import (
	"context"
	"sync"

	"github.com/iov-one/pswap/errors"
)

// Local is an in-process keyed mutex. A lock entry exists only while somebody
// holds or waits for it.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// NewLocal returns an in-process locker.
func NewLocal() *Local {
	return &Local{locks: make(map[string]*entry)}
}

// Lock blocks until the lock for given key is acquired or the context is
// done.
func (l *Local) Lock(ctx context.Context, key []byte) (func(), error) {
	k := string(key)

	l.mu.Lock()
	e, ok := l.locks[k]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[k] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(k, e)
		return nil, errors.Wrap(errors.ErrExpired, ctx.Err().Error())
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			<-e.sem
			l.release(k, e)
		})
	}
	return unlock, nil
}

func (l *Local) release(k string, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, k)
	}
	l.mu.Unlock()
}

// held returns the number of keys with an active entry.
func (l *Local) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
