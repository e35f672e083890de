package lock

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iov-one/pswap/errors"
)

// RedisClient is the subset of the go-redis client used by the lock.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

var _ RedisClient = (*redis.Client)(nil)

// releaseScript deletes the lock only if it is still owned by the caller.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// extendScript resets the expiration only if the lock is still owned by
// the caller.
const extendScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0
`

// Redis is a lock shared by all processes using the same Redis server. The
// lock expires after TTL so that a crashed holder cannot block a key forever.
type Redis struct {
	client RedisClient
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

// RedisOption configures the Redis lock.
type RedisOption func(*Redis)

// WithTTL sets the time after which an unreleased lock expires.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

// WithRetry sets the interval between acquisition attempts.
func WithRetry(interval time.Duration) RedisOption {
	return func(r *Redis) { r.retry = interval }
}

// NewRedis returns a locker using given client. Keys are stored under the
// "pswap:lock:" prefix.
func NewRedis(client RedisClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: "pswap:lock:",
		ttl:    30 * time.Second,
		retry:  50 * time.Millisecond,
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// Lock polls Redis until the lock is acquired or the context is done.
func (r *Redis) Lock(ctx context.Context, key []byte) (func(), error) {
	rkey, token, err := r.acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	return func() { r.release(rkey, token) }, nil
}

// Hold acquires the lock like Lock does and keeps extending its expiration
// until released. Use it for locks held longer than the TTL.
func (r *Redis) Hold(ctx context.Context, key []byte) (func(), error) {
	rkey, token, err := r.acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	if r.ttl <= 0 {
		return func() { r.release(rkey, token) }, nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		tick := time.NewTicker(r.ttl / 3)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				r.client.Eval(context.Background(), extendScript, []string{rkey}, token, r.ttl.Milliseconds())
			}
		}
	}()

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			close(stop)
			<-done
			r.release(rkey, token)
		})
	}
	return unlock, nil
}

func (r *Redis) acquire(ctx context.Context, key []byte) (string, string, error) {
	rkey := r.prefix + hex.EncodeToString(key)
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, rkey, token, r.ttl).Result()
		if err != nil {
			return "", "", errors.Wrapf(errors.ErrDatabase, "redis lock %s: %s", rkey, err)
		}
		if ok {
			return rkey, token, nil
		}

		select {
		case <-ctx.Done():
			return "", "", errors.Wrap(errors.ErrExpired, ctx.Err().Error())
		case <-time.After(r.retry):
		}
	}
}

// release must succeed even if the operation context was cancelled in the
// meantime.
func (r *Redis) release(rkey, token string) {
	r.client.Eval(context.Background(), releaseScript, []string{rkey}, token)
}

// Connect initializes a Redis client from URL or host:port input.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "parse redis url: %s", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}
