package swap

import (
	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
)

// Guards are the preconditions of the transitions. Each returns nil when the
// transition may continue.

// firstFailure returns the first non nil error, in argument order.
func firstFailure(guards ...error) error {
	for _, err := range guards {
		if err != nil {
			return err
		}
	}
	return nil
}

func premiumNotEscrowed(s *Swap) error {
	if s.Premium.Current != 0 {
		return errors.Wrap(ErrAlreadyEscrowed, "premium")
	}
	return nil
}

func premiumEscrowed(s *Swap) error {
	if s.Premium.Current == 0 {
		return ErrPremiumNotEscrowed
	}
	return nil
}

func premiumComplete(s *Swap) error {
	if s.Premium.Current != s.Premium.Expected {
		return errors.Wrapf(errors.ErrInvalidState, "premium %d of %d", s.Premium.Current, s.Premium.Expected)
	}
	return nil
}

func assetNotEscrowed(s *Swap) error {
	if s.Asset.Current != 0 {
		return errors.Wrap(ErrAlreadyEscrowed, "asset")
	}
	return nil
}

func assetEscrowed(s *Swap) error {
	if s.Asset.Current == 0 {
		return ErrAssetNotEscrowed
	}
	return nil
}

func callerIs(caller, want pswap.Address, role string) error {
	if !caller.Equals(want) {
		return errors.Wrapf(ErrWrongCaller, "%s is not the %s", caller, role)
	}
	return nil
}

func paymentCovers(payment, expected uint64) error {
	if payment < expected {
		return errors.Wrapf(ErrInsufficientPayment, "%d of %d", payment, expected)
	}
	return nil
}

// notAfter allows the action until the deadline instant, inclusive.
func notAfter(now, deadline pswap.UnixTime, kind *errors.Error) error {
	if now > deadline {
		return errors.Wrapf(kind, "now %s, deadline %s", now, deadline)
	}
	return nil
}

// after allows the action once the deadline instant has passed.
func after(now, deadline pswap.UnixTime, kind *errors.Error) error {
	if now <= deadline {
		return errors.Wrapf(kind, "now %s, deadline %s", now, deadline)
	}
	return nil
}

func deltaInBounds(conf *Configuration, delta pswap.UnixDuration) error {
	if delta < conf.MinDelta || delta > conf.MaxDelta {
		return errors.Wrapf(errors.ErrInvalidInput, "delta %s not within %s and %s", delta, conf.MinDelta, conf.MaxDelta)
	}
	return nil
}

func reconciled(want, got uint64) error {
	if want != got {
		return errors.Wrapf(ErrTransferMismatch, "expected %d, transferred %d", want, got)
	}
	return nil
}
