package swap

import (
	"context"

	"github.com/iov-one/pswap"
)

// LedgerGateway moves value between parties and the swap custody. Transfers
// are executed on the given store so they are committed or discarded together
// with the swap record. TransferIn and TransferOut report the amount that
// actually arrived, which can differ from the requested amount.
type LedgerGateway interface {
	TransferIn(ctx context.Context, db pswap.KVStore, ticker string, from, custody pswap.Address, amount uint64) (uint64, error)
	TransferOut(ctx context.Context, db pswap.KVStore, ticker string, custody, to pswap.Address, amount uint64) (uint64, error)
	NativeTransfer(ctx context.Context, db pswap.KVStore, from, to pswap.Address, amount uint64) error
}

// Locker provides mutual exclusion per key. The returned function releases
// the lock.
type Locker interface {
	Lock(ctx context.Context, key []byte) (unlock func(), err error)
}
