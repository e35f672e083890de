package swap

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/lock"
)

// Engine owns the swap registry and executes the swap transitions. It is safe
// for concurrent use.
type Engine struct {
	// mu guards every access to the state store. Transitions hold it for
	// writing, queries for reading.
	mu     sync.RWMutex
	store  pswap.CacheableKVStore
	bucket SwapBucket

	ledger LedgerGateway
	clock  pswap.Clock
	sink   EventSink
	locker Locker
	logger log.Logger
	conf   *Configuration
}

// committer is implemented by stores that persist versions, like the iavl
// commit store.
type committer interface {
	Commit() (pswap.CommitID, error)
}

// EngineOption customizes the engine created by NewEngine.
type EngineOption func(*Engine)

// WithClock sets the source of the current time.
func WithClock(c pswap.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithSink sets the receiver of the transition events.
func WithSink(s EventSink) EngineOption {
	return func(e *Engine) { e.sink = s }
}

// WithLocker sets the per key lock implementation.
func WithLocker(l Locker) EngineOption {
	return func(e *Engine) { e.locker = l }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithConfiguration uses given configuration instead of the one found in the
// store.
func WithConfiguration(c *Configuration) EngineOption {
	return func(e *Engine) { e.conf = c }
}

// NewEngine returns an engine operating on given store. Unless provided as an
// option, the configuration is loaded from the store.
func NewEngine(store pswap.CacheableKVStore, ledger LedgerGateway, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		store:  store,
		bucket: NewSwapBucket(),
		ledger: ledger,
		clock:  pswap.SystemClock,
		sink:   nopSink{},
		locker: lock.NewLocal(),
		logger: pswap.DefaultLogger,
	}
	for _, fn := range opts {
		fn(e)
	}

	if e.conf == nil {
		conf, err := LoadConfiguration(store)
		if err != nil {
			return nil, err
		}
		e.conf = conf
	}
	if err := e.conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	e.logger = e.logger.With("module", "pswap")
	return e, nil
}

// Configuration returns the configuration the engine runs with.
func (e *Engine) Configuration() Configuration {
	return *e.conf
}

// transition is the body of a state change. It operates on a transactional
// view of the store and fills in the event.
type transition func(db pswap.KVStore, now pswap.UnixTime, ev *Event) error

// execute runs fn as a single unit of work for the swap with given key. Any
// error discards all changes made by fn, including ledger movements. The
// event is emitted after the changes were committed, while the key is still
// locked.
func (e *Engine) execute(ctx context.Context, kind EventKind, key []byte, caller pswap.Address, fn transition) (*Event, error) {
	started := time.Now()
	logger := e.logger.With("key", hex.EncodeToString(key), "kind", string(kind))

	unlock, err := e.locker.Lock(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "lock swap")
	}
	defer unlock()

	ev, err := e.commit(kind, key, caller, fn)
	if err != nil {
		logger.Debug("transition rejected", "err", err)
		return nil, err
	}
	logger.Info("transition committed", "event", ev.ID.String(), "duration", time.Since(started))

	if err := e.sink.Emit(ctx, *ev); err != nil {
		logger.Error("cannot emit event", "event", ev.ID.String(), "err", err)
	}
	return ev, nil
}

func (e *Engine) commit(kind EventKind, key []byte, caller pswap.Address, fn transition) (*Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	ev := &Event{
		Kind:          kind,
		CommitmentKey: cloneBytes(key),
		Caller:        caller,
		Time:          now,
	}

	cache := e.store.CacheWrap()
	if err := fn(cache, now, ev); err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write state")
	}
	if c, ok := e.store.(committer); ok {
		if _, err := c.Commit(); err != nil {
			return nil, errors.Wrap(err, "commit state")
		}
	}

	ev.ID = uuid.New()
	return ev, nil
}

// settle records a value movement on the event. The first movement is the
// primary transfer of the transition.
func (ev *Event) settle(t Transfer) {
	if len(ev.Settlements) == 0 {
		ev.Ticker = t.Ticker
		ev.Amount = t.Amount
		ev.Source = t.Source
		ev.Destination = t.Destination
	}
	ev.Settlements = append(ev.Settlements, t)
}

// positions copies the current amounts of the swap into the event.
func (ev *Event) positions(s *Swap) {
	ev.PremiumCurrent = s.Premium.Current
	ev.AssetCurrent = s.Asset.Current
}

// nativeTransfer moves the premium and records it on the event.
func (e *Engine) nativeTransfer(ctx context.Context, db pswap.KVStore, ev *Event, from, to pswap.Address, amount uint64) error {
	if err := e.ledger.NativeTransfer(ctx, db, from, to, amount); err != nil {
		return errors.Wrapf(ErrGateway, "native transfer of %d: %s", amount, err)
	}
	ev.settle(Transfer{
		Ticker:      e.conf.NativeTicker,
		Amount:      amount,
		Source:      from,
		Destination: to,
	})
	return nil
}

// assetIn moves the asset into custody. The ledger must report exactly the
// requested amount.
func (e *Engine) assetIn(ctx context.Context, db pswap.KVStore, ev *Event, s *Swap, from pswap.Address, amount uint64) error {
	custody := CustodyAddress(s.Key())
	got, err := e.ledger.TransferIn(ctx, db, s.Agreement.AssetTicker, from, custody, amount)
	if err != nil {
		return errors.Wrapf(ErrGateway, "transfer in of %d %s: %s", amount, s.Agreement.AssetTicker, err)
	}
	if err := reconciled(amount, got); err != nil {
		return err
	}
	ev.settle(Transfer{
		Ticker:      s.Agreement.AssetTicker,
		Amount:      got,
		Source:      from,
		Destination: custody,
	})
	return nil
}

// assetOut moves the asset out of custody. The ledger must report exactly
// the requested amount.
func (e *Engine) assetOut(ctx context.Context, db pswap.KVStore, ev *Event, s *Swap, to pswap.Address, amount uint64) error {
	custody := CustodyAddress(s.Key())
	got, err := e.ledger.TransferOut(ctx, db, s.Agreement.AssetTicker, custody, to, amount)
	if err != nil {
		return errors.Wrapf(ErrGateway, "transfer out of %d %s: %s", amount, s.Agreement.AssetTicker, err)
	}
	if err := reconciled(amount, got); err != nil {
		return err
	}
	ev.settle(Transfer{
		Ticker:      s.Agreement.AssetTicker,
		Amount:      got,
		Source:      custody,
		Destination: to,
	})
	return nil
}
