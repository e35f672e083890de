package swap

import (
	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
)

// SetupMsg creates a new swap.
type SetupMsg struct {
	ExpectedAsset      uint64             `json:"expected_asset"`
	ExpectedPremium    uint64             `json:"expected_premium"`
	AssetEscrower      pswap.Address      `json:"asset_escrower"`
	PremiumEscrower    pswap.Address      `json:"premium_escrower"`
	AssetTicker        string             `json:"asset_ticker"`
	CommitmentKey      []byte             `json:"commitment_key"`
	StartTime          pswap.UnixTime     `json:"start_time"`
	AssetEscrowedFirst bool               `json:"asset_escrowed_first"`
	Delta              pswap.UnixDuration `json:"delta"`
}

// Validate checks the message without consulting any state.
func (m *SetupMsg) Validate() error {
	var errs error
	if m.ExpectedAsset == 0 {
		errs = errors.AppendField(errs, "ExpectedAsset", errors.ErrInvalidAmount)
	}
	if m.ExpectedAsset > coin.MaxAmount {
		errs = errors.AppendField(errs, "ExpectedAsset", errors.ErrOverflow)
	}
	if m.ExpectedPremium == 0 {
		errs = errors.AppendField(errs, "ExpectedPremium", errors.ErrInvalidAmount)
	}
	if m.ExpectedPremium > coin.MaxAmount {
		errs = errors.AppendField(errs, "ExpectedPremium", errors.ErrOverflow)
	}
	errs = errors.AppendField(errs, "AssetEscrower", m.AssetEscrower.Validate())
	errs = errors.AppendField(errs, "PremiumEscrower", m.PremiumEscrower.Validate())
	if len(m.AssetEscrower) != 0 && m.AssetEscrower.Equals(m.PremiumEscrower) {
		errs = errors.AppendField(errs, "PremiumEscrower",
			errors.Wrap(errors.ErrInvalidInput, "both parties are the same"))
	}
	if !coin.IsCC(m.AssetTicker) {
		errs = errors.AppendField(errs, "AssetTicker",
			errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.AssetTicker))
	}
	errs = errors.AppendField(errs, "CommitmentKey", validateCommitmentKey(m.CommitmentKey))
	if m.StartTime < 0 {
		errs = errors.AppendField(errs, "StartTime",
			errors.Wrap(errors.ErrInvalidInput, "negative start time"))
	}
	if m.Delta <= 0 {
		errs = errors.AppendField(errs, "Delta",
			errors.Wrap(errors.ErrInvalidInput, "must be positive"))
	}
	return errs
}

// EscrowPremiumMsg locks the premium.
type EscrowPremiumMsg struct {
	CommitmentKey []byte        `json:"commitment_key"`
	Caller        pswap.Address `json:"caller"`
	Payment       uint64        `json:"payment"`
}

// Validate checks the message without consulting any state.
func (m *EscrowPremiumMsg) Validate() error {
	errs := validateCall(m.CommitmentKey, m.Caller)
	if m.Payment == 0 {
		errs = errors.AppendField(errs, "Payment", errors.ErrInvalidAmount)
	}
	return errs
}

// EscrowAssetMsg locks the asset.
type EscrowAssetMsg struct {
	CommitmentKey []byte        `json:"commitment_key"`
	Caller        pswap.Address `json:"caller"`
}

// Validate checks the message without consulting any state.
func (m *EscrowAssetMsg) Validate() error {
	return validateCall(m.CommitmentKey, m.Caller)
}

// RedeemAssetMsg releases the asset to the redeemer in exchange for the
// secret.
type RedeemAssetMsg struct {
	CommitmentKey []byte        `json:"commitment_key"`
	Secret        []byte        `json:"secret"`
	Caller        pswap.Address `json:"caller"`
}

// Validate checks the message without consulting any state. The secret is
// verified against the stored commitment by the engine.
func (m *RedeemAssetMsg) Validate() error {
	errs := validateCall(m.CommitmentKey, m.Caller)
	if len(m.Secret) == 0 {
		errs = errors.AppendField(errs, "Secret", errors.ErrEmpty)
	}
	return errs
}

// RefundPremiumMsg returns the premium when the asset was never escrowed.
type RefundPremiumMsg struct {
	CommitmentKey []byte        `json:"commitment_key"`
	Caller        pswap.Address `json:"caller"`
}

// Validate checks the message without consulting any state.
func (m *RefundPremiumMsg) Validate() error {
	return validateCall(m.CommitmentKey, m.Caller)
}

// RefundAssetMsg returns the asset after the asset deadline.
type RefundAssetMsg struct {
	CommitmentKey []byte        `json:"commitment_key"`
	Caller        pswap.Address `json:"caller"`
}

// Validate checks the message without consulting any state.
func (m *RefundAssetMsg) Validate() error {
	return validateCall(m.CommitmentKey, m.Caller)
}

// RedeemPremiumMsg pays the premium to the asset escrower after the timeout.
type RedeemPremiumMsg struct {
	CommitmentKey []byte        `json:"commitment_key"`
	Caller        pswap.Address `json:"caller"`
}

// Validate checks the message without consulting any state.
func (m *RedeemPremiumMsg) Validate() error {
	return validateCall(m.CommitmentKey, m.Caller)
}

func validateCall(key []byte, caller pswap.Address) error {
	var errs error
	errs = errors.AppendField(errs, "CommitmentKey", validateCommitmentKey(key))
	errs = errors.AppendField(errs, "Caller", caller.Validate())
	return errs
}
