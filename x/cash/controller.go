package cash

import (
	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
)

// Controller is the functionality needed by the gateway and the
// genesis initializer.
type Controller interface {
	Balance(db pswap.ReadOnlyKVStore, addr pswap.Address) (coin.Coins, error)
	MoveCoins(db pswap.KVStore, src, dest pswap.Address, amount coin.Coin) error
	IssueCoins(db pswap.KVStore, dest pswap.Address, amount coin.Coin) error
}

// BaseController is a simple implementation of the controller. Wallet must
// return a wallet instance.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns base controller implementation.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of funds stored under given account address.
// An address that never received funds has an empty balance.
func (c BaseController) Balance(db pswap.ReadOnlyKVStore, addr pswap.Address) (coin.Coins, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get wallet")
	}
	if w == nil {
		return nil, nil
	}
	return w.Coins().Clone(), nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db pswap.KVStore, src, dest pswap.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero value")
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "cannot get sender wallet")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if !sender.Coins().Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s has %d, needs %s", src, sender.Coins().Get(amount.Ticker), amount)
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Load the recipient after the sender was saved so that moving coins to
	// the same address is a no-op.
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient wallet")
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db pswap.KVStore, dest pswap.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
