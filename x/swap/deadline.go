package swap

import (
	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
)

// Deadlines are the instants that drive the swap lifecycle.
type Deadlines struct {
	// Premium is the last instant the premium can be escrowed.
	Premium pswap.UnixTime `json:"premium_deadline"`
	// Asset is the last instant the asset can be escrowed.
	Asset pswap.UnixTime `json:"asset_deadline"`
	// Timeout is the last instant the asset can be redeemed.
	Timeout pswap.UnixTime `json:"timeout"`
}

// ComputeDeadlines returns the deadlines of a swap starting at start. The
// premium deadline is always one delta after the start, the timeout two. The
// asset deadline is the premium deadline if the asset is escrowed first and
// the timeout otherwise.
func ComputeDeadlines(start pswap.UnixTime, delta pswap.UnixDuration, assetEscrowedFirst bool) (Deadlines, error) {
	if delta <= 0 {
		return Deadlines{}, errors.Wrapf(errors.ErrInvalidInput, "delta must be positive, got %d", delta)
	}
	if start < 0 {
		return Deadlines{}, errors.Wrapf(errors.ErrInvalidInput, "negative start %d", start)
	}

	premium, err := start.AddChecked(delta)
	if err != nil {
		return Deadlines{}, errors.Wrap(err, "premium deadline")
	}
	timeout, err := premium.AddChecked(delta)
	if err != nil {
		return Deadlines{}, errors.Wrap(err, "timeout")
	}

	d := Deadlines{
		Premium: premium,
		Asset:   timeout,
		Timeout: timeout,
	}
	if assetEscrowedFirst {
		d.Asset = premium
	}
	return d, nil
}

// Validate checks the ordering of the deadlines.
func (d Deadlines) Validate() error {
	if d.Premium > d.Asset {
		return errors.Wrap(errors.ErrInvalidState, "premium deadline after asset deadline")
	}
	if d.Asset > d.Timeout {
		return errors.Wrap(errors.ErrInvalidState, "asset deadline after timeout")
	}
	return nil
}
