package swap

import (
	"context"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
)

// Schedule describes where a swap is in its lifecycle.
type Schedule struct {
	Deadlines
	State State          `json:"state"`
	Now   pswap.UnixTime `json:"now"`
}

// Swap returns the swap stored under given commitment key.
func (e *Engine) Swap(ctx context.Context, key []byte) (*Swap, error) {
	if err := validateCommitmentKey(key); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bucket.Get(e.store, key)
}

// SwapsByAssetEscrower returns all open swaps where given address escrows
// the asset.
func (e *Engine) SwapsByAssetEscrower(ctx context.Context, addr pswap.Address) ([]*Swap, error) {
	return e.byParty(IndexAssetEscrower, addr)
}

// SwapsByPremiumEscrower returns all open swaps where given address escrows
// the premium.
func (e *Engine) SwapsByPremiumEscrower(ctx context.Context, addr pswap.Address) ([]*Swap, error) {
	return e.byParty(IndexPremiumEscrower, addr)
}

func (e *Engine) byParty(index string, addr pswap.Address) ([]*Swap, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bucket.ByParty(e.store, index, addr)
}

// Deadlines returns the deadlines and the state of the swap stored under
// given commitment key.
func (e *Engine) Deadlines(ctx context.Context, key []byte) (*Schedule, error) {
	swap, err := e.Swap(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Schedule{
		Deadlines: swap.Deadlines(),
		State:     swap.State(),
		Now:       e.clock.Now(),
	}, nil
}

// View calls fn with a read only view of the state. The state does not
// change until fn returns.
func (e *Engine) View(fn func(db pswap.ReadOnlyKVStore) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.store)
}
