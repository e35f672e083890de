package cash

import (
	"context"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
)

// Gateway exposes the ledger to the swap engine. Every transfer is executed
// on the store given by the caller so that the ledger state changes together
// with the swap state.
type Gateway struct {
	ctrl Controller
}

// NewGateway returns a gateway moving funds with given controller.
func NewGateway(ctrl Controller) *Gateway {
	return &Gateway{ctrl: ctrl}
}

// TransferIn moves amount of ticker from a party into a custody account and
// returns the amount the custody received.
func (g *Gateway) TransferIn(ctx context.Context, db pswap.KVStore, ticker string, from, custody pswap.Address, amount uint64) (uint64, error) {
	return g.transfer(ctx, db, ticker, from, custody, amount)
}

// TransferOut moves amount of ticker out of a custody account and returns
// the amount the recipient received.
func (g *Gateway) TransferOut(ctx context.Context, db pswap.KVStore, ticker string, custody, to pswap.Address, amount uint64) (uint64, error) {
	return g.transfer(ctx, db, ticker, custody, to, amount)
}

// NativeTransfer moves amount of the native currency. Native transfers are
// never charged a fee.
func (g *Gateway) NativeTransfer(ctx context.Context, db pswap.KVStore, from, to pswap.Address, amount uint64) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	c := coin.NewCoin(amount, conf.NativeTicker)
	if err := g.ctrl.MoveCoins(db, from, to, c); err != nil {
		return errors.Wrapf(err, "native transfer %s", c)
	}
	pswap.GetLogger(ctx).Debug("native transfer",
		"from", from, "to", to, "amount", c.String())
	return nil
}

func (g *Gateway) transfer(ctx context.Context, db pswap.KVStore, ticker string, src, dest pswap.Address, amount uint64) (uint64, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}

	fee := conf.Fee(ticker)
	if ticker == conf.NativeTicker {
		fee = 0
	}
	if fee >= amount {
		return 0, errors.Wrapf(errors.ErrInvalidAmount, "transfer of %d %s does not cover the fee %d", amount, ticker, fee)
	}

	delivered := amount - fee
	if err := g.ctrl.MoveCoins(db, src, dest, coin.NewCoin(delivered, ticker)); err != nil {
		return 0, errors.Wrapf(err, "transfer %d %s", amount, ticker)
	}
	if fee > 0 {
		if err := g.ctrl.MoveCoins(db, src, conf.CollectorAddress, coin.NewCoin(fee, ticker)); err != nil {
			return 0, errors.Wrapf(err, "transfer fee %d %s", fee, ticker)
		}
	}

	pswap.GetLogger(ctx).Debug("transfer",
		"from", src, "to", dest, "ticker", ticker,
		"amount", amount, "delivered", delivered)
	return delivered, nil
}
