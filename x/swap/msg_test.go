package swap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/pswaptest"
	pswapassert "github.com/iov-one/pswap/pswaptest/assert"
)

func TestSetupMsgValidate(t *testing.T) {
	alice := pswaptest.NamedAddress("alice")
	bob := pswaptest.NamedAddress("bob")
	key := HashSecret(make([]byte, SecretSize))

	valid := func() *SetupMsg {
		return &SetupMsg{
			ExpectedAsset:   100,
			ExpectedPremium: 10,
			AssetEscrower:   alice,
			PremiumEscrower: bob,
			AssetTicker:     "ETH",
			CommitmentKey:   key,
			StartTime:       1000,
			Delta:           60,
		}
	}

	cases := map[string]struct {
		mutate    func(*SetupMsg)
		wantField string
		wantErr   *errors.Error
	}{
		"valid": {
			mutate: func(*SetupMsg) {},
		},
		"zero asset": {
			mutate:    func(m *SetupMsg) { m.ExpectedAsset = 0 },
			wantField: "ExpectedAsset",
			wantErr:   errors.ErrInvalidAmount,
		},
		"asset too big": {
			mutate:    func(m *SetupMsg) { m.ExpectedAsset = coin.MaxAmount + 1 },
			wantField: "ExpectedAsset",
			wantErr:   errors.ErrOverflow,
		},
		"zero premium": {
			mutate:    func(m *SetupMsg) { m.ExpectedPremium = 0 },
			wantField: "ExpectedPremium",
			wantErr:   errors.ErrInvalidAmount,
		},
		"invalid asset escrower": {
			mutate:    func(m *SetupMsg) { m.AssetEscrower = pswap.Address("x") },
			wantField: "AssetEscrower",
			wantErr:   errors.ErrInvalidInput,
		},
		"missing premium escrower": {
			mutate:    func(m *SetupMsg) { m.PremiumEscrower = nil },
			wantField: "PremiumEscrower",
			wantErr:   errors.ErrInvalidInput,
		},
		"same parties": {
			mutate:    func(m *SetupMsg) { m.PremiumEscrower = m.AssetEscrower },
			wantField: "PremiumEscrower",
			wantErr:   errors.ErrInvalidInput,
		},
		"invalid ticker": {
			mutate:    func(m *SetupMsg) { m.AssetTicker = "ETHEREUM" },
			wantField: "AssetTicker",
			wantErr:   errors.ErrCurrency,
		},
		"missing commitment key": {
			mutate:    func(m *SetupMsg) { m.CommitmentKey = nil },
			wantField: "CommitmentKey",
			wantErr:   errors.ErrInvalidInput,
		},
		"negative start": {
			mutate:    func(m *SetupMsg) { m.StartTime = -1 },
			wantField: "StartTime",
			wantErr:   errors.ErrInvalidInput,
		},
		"zero delta": {
			mutate:    func(m *SetupMsg) { m.Delta = 0 },
			wantField: "Delta",
			wantErr:   errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg := valid()
			tc.mutate(msg)
			err := msg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			pswapassert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestCallMsgValidate(t *testing.T) {
	caller := pswaptest.NamedAddress("caller")
	key := HashSecret(make([]byte, SecretSize))
	secret := make([]byte, SecretSize)

	cases := map[string]struct {
		msg       interface{ Validate() error }
		wantField string
		wantErr   *errors.Error
	}{
		"escrow premium": {
			msg: &EscrowPremiumMsg{CommitmentKey: key, Caller: caller, Payment: 1},
		},
		"escrow premium without payment": {
			msg:       &EscrowPremiumMsg{CommitmentKey: key, Caller: caller},
			wantField: "Payment",
			wantErr:   errors.ErrInvalidAmount,
		},
		"escrow asset": {
			msg: &EscrowAssetMsg{CommitmentKey: key, Caller: caller},
		},
		"escrow asset without caller": {
			msg:       &EscrowAssetMsg{CommitmentKey: key},
			wantField: "Caller",
			wantErr:   errors.ErrInvalidInput,
		},
		"redeem asset": {
			msg: &RedeemAssetMsg{CommitmentKey: key, Secret: secret, Caller: caller},
		},
		"redeem asset without secret": {
			msg:       &RedeemAssetMsg{CommitmentKey: key, Caller: caller},
			wantField: "Secret",
			wantErr:   errors.ErrEmpty,
		},
		"refund premium with a short key": {
			msg:       &RefundPremiumMsg{CommitmentKey: key[:31], Caller: caller},
			wantField: "CommitmentKey",
			wantErr:   errors.ErrInvalidInput,
		},
		"refund asset": {
			msg: &RefundAssetMsg{CommitmentKey: key, Caller: caller},
		},
		"redeem premium without key": {
			msg:       &RedeemPremiumMsg{Caller: caller},
			wantField: "CommitmentKey",
			wantErr:   errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			pswapassert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}
