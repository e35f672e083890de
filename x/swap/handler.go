package swap

import (
	"context"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
)

// Setup registers a new swap. No value is moved.
func (e *Engine) Setup(ctx context.Context, msg *SetupMsg) (*Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "setup")
	}
	return e.execute(ctx, KindSetUp, msg.CommitmentKey, msg.AssetEscrower, func(db pswap.KVStore, now pswap.UnixTime, ev *Event) error {
		exists, err := e.bucket.Has(db, msg.CommitmentKey)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(ErrAlreadySetUp, "commitment key %X", msg.CommitmentKey)
		}
		if err := deltaInBounds(e.conf, msg.Delta); err != nil {
			return err
		}
		deadlines, err := ComputeDeadlines(msg.StartTime, msg.Delta, msg.AssetEscrowedFirst)
		if err != nil {
			return err
		}
		if err := notAfter(now, deadlines.Timeout, ErrTimeoutExceeded); err != nil {
			return err
		}

		swap := &Swap{
			Agreement: Agreement{
				AssetEscrower:   msg.AssetEscrower,
				PremiumEscrower: msg.PremiumEscrower,
				CommitmentKey:   msg.CommitmentKey,
				AssetTicker:     msg.AssetTicker,
			},
			Asset: AssetPosition{
				Expected: msg.ExpectedAsset,
				Deadline: deadlines.Asset,
				Timeout:  deadlines.Timeout,
			},
			Premium: PremiumPosition{
				Expected: msg.ExpectedPremium,
				Deadline: deadlines.Premium,
			},
		}
		if err := e.bucket.Insert(db, swap); err != nil {
			return err
		}

		ev.Ticker = swap.Agreement.AssetTicker
		ev.Amount = swap.Asset.Expected
		ev.positions(swap)
		return nil
	})
}

// EscrowPremium locks the agreed premium in the swap custody. A payment above
// the agreed premium is accepted but only the agreed premium is taken. The
// excess is never moved and stays with the payer.
func (e *Engine) EscrowPremium(ctx context.Context, msg *EscrowPremiumMsg) (*Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "escrow premium")
	}
	return e.execute(ctx, KindPremiumEscrowed, msg.CommitmentKey, msg.Caller, func(db pswap.KVStore, now pswap.UnixTime, ev *Event) error {
		swap, err := e.bucket.Get(db, msg.CommitmentKey)
		if err != nil {
			return err
		}
		err = firstFailure(
			premiumNotEscrowed(swap),
			callerIs(msg.Caller, swap.Agreement.PremiumEscrower, "premium escrower"),
			paymentCovers(msg.Payment, swap.Premium.Expected),
			notAfter(now, swap.Premium.Deadline, ErrDeadlineExceeded),
		)
		if err != nil {
			return err
		}

		custody := CustodyAddress(swap.Key())
		if err := e.nativeTransfer(ctx, db, ev, msg.Caller, custody, swap.Premium.Expected); err != nil {
			return err
		}
		swap.Premium.Current = swap.Premium.Expected
		if err := e.bucket.Update(db, swap); err != nil {
			return err
		}
		ev.positions(swap)
		return nil
	})
}

// EscrowAsset locks the asset in the swap custody. The premium must be
// escrowed first.
func (e *Engine) EscrowAsset(ctx context.Context, msg *EscrowAssetMsg) (*Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "escrow asset")
	}
	return e.execute(ctx, KindAssetEscrowed, msg.CommitmentKey, msg.Caller, func(db pswap.KVStore, now pswap.UnixTime, ev *Event) error {
		swap, err := e.bucket.Get(db, msg.CommitmentKey)
		if err != nil {
			return err
		}
		err = firstFailure(
			assetNotEscrowed(swap),
			premiumEscrowed(swap),
			callerIs(msg.Caller, swap.Agreement.AssetEscrower, "asset escrower"),
			notAfter(now, swap.Asset.Deadline, ErrDeadlineExceeded),
		)
		if err != nil {
			return err
		}

		if err := e.assetIn(ctx, db, ev, swap, msg.Caller, swap.Asset.Expected); err != nil {
			return err
		}
		swap.Asset.Current = swap.Asset.Expected
		if err := e.bucket.Update(db, swap); err != nil {
			return err
		}
		ev.positions(swap)
		return nil
	})
}

// RedeemAsset releases the asset to the premium escrower in exchange for the
// secret. The premium is returned to the premium escrower and the swap is
// closed.
func (e *Engine) RedeemAsset(ctx context.Context, msg *RedeemAssetMsg) (*Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "redeem asset")
	}
	return e.execute(ctx, KindAssetRedeemed, msg.CommitmentKey, msg.Caller, func(db pswap.KVStore, now pswap.UnixTime, ev *Event) error {
		swap, err := e.bucket.Get(db, msg.CommitmentKey)
		if err != nil {
			return err
		}
		err = firstFailure(
			VerifySecret(swap.Key(), msg.Secret),
			assetEscrowed(swap),
			callerIs(msg.Caller, swap.Agreement.PremiumEscrower, "redeemer"),
			notAfter(now, swap.Asset.Timeout, ErrTimeoutExceeded),
		)
		if err != nil {
			return err
		}

		custody := CustodyAddress(swap.Key())
		if err := e.assetOut(ctx, db, ev, swap, swap.Agreement.PremiumEscrower, swap.Asset.Current); err != nil {
			return err
		}
		if err := e.nativeTransfer(ctx, db, ev, custody, swap.Agreement.PremiumEscrower, swap.Premium.Current); err != nil {
			return err
		}
		return e.close(db, ev, swap)
	})
}

// RefundPremium returns the premium to the premium escrower when the asset
// was not escrowed and the premium deadline has passed.
func (e *Engine) RefundPremium(ctx context.Context, msg *RefundPremiumMsg) (*Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "refund premium")
	}
	return e.execute(ctx, KindPremiumRefunded, msg.CommitmentKey, msg.Caller, func(db pswap.KVStore, now pswap.UnixTime, ev *Event) error {
		swap, err := e.bucket.Get(db, msg.CommitmentKey)
		if err != nil {
			return err
		}
		err = firstFailure(
			premiumEscrowed(swap),
			assetNotEscrowed(swap),
			after(now, swap.Premium.Deadline, ErrDeadlineNotReached),
		)
		if err != nil {
			return err
		}

		custody := CustodyAddress(swap.Key())
		if err := e.nativeTransfer(ctx, db, ev, custody, swap.Agreement.PremiumEscrower, swap.Premium.Current); err != nil {
			return err
		}
		return e.close(db, ev, swap)
	})
}

// RefundAsset returns the asset to the asset escrower once the asset deadline
// has passed. The premium goes to the asset escrower if the timeout has
// passed as well, otherwise back to the premium escrower.
func (e *Engine) RefundAsset(ctx context.Context, msg *RefundAssetMsg) (*Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "refund asset")
	}
	return e.execute(ctx, KindAssetRefunded, msg.CommitmentKey, msg.Caller, func(db pswap.KVStore, now pswap.UnixTime, ev *Event) error {
		swap, err := e.bucket.Get(db, msg.CommitmentKey)
		if err != nil {
			return err
		}
		err = firstFailure(
			assetEscrowed(swap),
			after(now, swap.Asset.Deadline, ErrDeadlineNotReached),
		)
		if err != nil {
			return err
		}

		if err := e.assetOut(ctx, db, ev, swap, swap.Agreement.AssetEscrower, swap.Asset.Current); err != nil {
			return err
		}
		premiumTo := swap.Agreement.PremiumEscrower
		if now > swap.Asset.Timeout {
			premiumTo = swap.Agreement.AssetEscrower
		}
		custody := CustodyAddress(swap.Key())
		if err := e.nativeTransfer(ctx, db, ev, custody, premiumTo, swap.Premium.Current); err != nil {
			return err
		}
		return e.close(db, ev, swap)
	})
}

// RedeemPremium pays the premium to the asset escrower after the swap timed
// out without a redemption. The asset is returned to the asset escrower.
func (e *Engine) RedeemPremium(ctx context.Context, msg *RedeemPremiumMsg) (*Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "redeem premium")
	}
	return e.execute(ctx, KindPremiumRedeemed, msg.CommitmentKey, msg.Caller, func(db pswap.KVStore, now pswap.UnixTime, ev *Event) error {
		swap, err := e.bucket.Get(db, msg.CommitmentKey)
		if err != nil {
			return err
		}
		err = firstFailure(
			premiumEscrowed(swap),
			premiumComplete(swap),
			assetEscrowed(swap),
			after(now, swap.Asset.Timeout, ErrTimeoutNotReached),
		)
		if err != nil {
			return err
		}

		custody := CustodyAddress(swap.Key())
		if err := e.nativeTransfer(ctx, db, ev, custody, swap.Agreement.AssetEscrower, swap.Premium.Current); err != nil {
			return err
		}
		if err := e.assetOut(ctx, db, ev, swap, swap.Agreement.AssetEscrower, swap.Asset.Current); err != nil {
			return err
		}
		return e.close(db, ev, swap)
	})
}

// close deletes the swap record after all value left the custody.
func (e *Engine) close(db pswap.KVStore, ev *Event, swap *Swap) error {
	if err := e.bucket.Remove(db, swap.Key()); err != nil {
		return err
	}
	swap.Asset.Current = 0
	swap.Premium.Current = 0
	ev.positions(swap)
	return nil
}
