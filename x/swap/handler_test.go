package swap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
	pswapassert "github.com/iov-one/pswap/pswaptest/assert"
)

func TestScenarioDeadlines(t *testing.T) {
	cases := map[string]struct {
		assetEscrowedFirst bool
		want               Deadlines
	}{
		"A: asset escrowed first": {
			assetEscrowedFirst: true,
			want: Deadlines{
				Premium: startTime + 60,
				Asset:   startTime + 60,
				Timeout: startTime + 120,
			},
		},
		"B: premium escrowed first": {
			assetEscrowedFirst: false,
			want: Deadlines{
				Premium: startTime + 60,
				Asset:   startTime + 120,
				Timeout: startTime + 120,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			msg := f.setupMsg()
			msg.AssetEscrowedFirst = tc.assetEscrowedFirst

			ev, err := f.engine.Setup(context.Background(), msg)
			require.NoError(t, err)
			assert.Equal(t, KindSetUp, ev.Kind)
			assert.Equal(t, f.alice, ev.Caller)
			assert.Equal(t, "ETH", ev.Ticker)
			assert.Equal(t, uint64(100), ev.Amount)
			assert.Empty(t, ev.Settlements)

			sched, err := f.engine.Deadlines(context.Background(), f.key)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sched.Deadlines)
			assert.Equal(t, Created, sched.State)
			assert.Equal(t, startTime, sched.Now)

			swap, err := f.engine.Swap(context.Background(), f.key)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), swap.Asset.Current)
			assert.Equal(t, uint64(0), swap.Premium.Current)
			assert.Equal(t, uint64(100), swap.Asset.Expected)
			assert.Equal(t, uint64(10), swap.Premium.Expected)
		})
	}
}

func TestScenarioRedeemAsset(t *testing.T) {
	f := newFixture(t)
	f.setup(t)
	f.escrowPremium(t)
	f.escrowAsset(t)

	assert.Equal(t, uint64(900), f.balance(t, f.alice, "ETH"))
	assert.Equal(t, uint64(100), f.balance(t, f.custody(), "ETH"))
	assert.Equal(t, uint64(10), f.balance(t, f.custody(), "IOV"))

	f.clock.Set(startTime + 119)
	ev, err := f.engine.RedeemAsset(context.Background(), &RedeemAssetMsg{
		CommitmentKey: f.key,
		Secret:        f.secret,
		Caller:        f.bob,
	})
	require.NoError(t, err)

	assert.Equal(t, KindAssetRedeemed, ev.Kind)
	assert.Equal(t, uint64(0), ev.AssetCurrent)
	assert.Equal(t, uint64(0), ev.PremiumCurrent)
	assert.Equal(t, "ETH", ev.Ticker)
	assert.Equal(t, uint64(100), ev.Amount)
	assert.Equal(t, f.custody(), ev.Source)
	assert.Equal(t, f.bob, ev.Destination)
	assert.Equal(t, startTime+119, ev.Time)
	assert.Len(t, ev.Settlements, 2)

	assert.Equal(t, uint64(100), f.balance(t, f.bob, "ETH"))
	assert.Equal(t, uint64(100), f.balance(t, f.bob, "IOV"))
	assert.Equal(t, uint64(900), f.balance(t, f.alice, "ETH"))
	assert.True(t, f.balance(t, f.custody(), "ETH") == 0 && f.balance(t, f.custody(), "IOV") == 0)

	_, err = f.engine.Swap(context.Background(), f.key)
	pswapassert.IsErr(t, errors.ErrNotFound, err)
}

func TestScenarioRefundPremium(t *testing.T) {
	f := newFixture(t)
	f.setup(t)
	f.escrowPremium(t)
	assert.Equal(t, uint64(90), f.balance(t, f.bob, "IOV"))

	f.clock.Set(startTime + 61)
	ev, err := f.engine.RefundPremium(context.Background(), &RefundPremiumMsg{
		CommitmentKey: f.key,
		Caller:        f.carol,
	})
	require.NoError(t, err)
	assert.Equal(t, KindPremiumRefunded, ev.Kind)
	assert.Equal(t, f.carol, ev.Caller)
	assert.Equal(t, "IOV", ev.Ticker)
	assert.Equal(t, uint64(10), ev.Amount)
	assert.Equal(t, f.bob, ev.Destination)
	assert.Equal(t, uint64(100), f.balance(t, f.bob, "IOV"))

	_, err = f.engine.EscrowAsset(context.Background(), &EscrowAssetMsg{
		CommitmentKey: f.key,
		Caller:        f.alice,
	})
	pswapassert.IsErr(t, errors.ErrNotFound, err)
}

func TestScenarioRedeemPremium(t *testing.T) {
	f := newFixture(t)
	f.setup(t)
	f.escrowPremium(t)
	f.escrowAsset(t)

	f.clock.Set(startTime + 121)
	ev, err := f.engine.RedeemPremium(context.Background(), &RedeemPremiumMsg{
		CommitmentKey: f.key,
		Caller:        f.alice,
	})
	require.NoError(t, err)
	assert.Equal(t, KindPremiumRedeemed, ev.Kind)
	assert.Equal(t, "IOV", ev.Ticker)
	assert.Equal(t, uint64(10), ev.Amount)
	assert.Equal(t, f.alice, ev.Destination)

	assert.Equal(t, uint64(10), f.balance(t, f.alice, "IOV"))
	assert.Equal(t, uint64(1000), f.balance(t, f.alice, "ETH"))
	assert.Equal(t, uint64(90), f.balance(t, f.bob, "IOV"))

	_, err = f.engine.RefundAsset(context.Background(), &RefundAssetMsg{
		CommitmentKey: f.key,
		Caller:        f.alice,
	})
	pswapassert.IsErr(t, errors.ErrNotFound, err)
}

func TestRefundAssetSettlesPremium(t *testing.T) {
	cases := map[string]struct {
		now             pswap.UnixTime
		wantAliceIOV    uint64
		wantBobIOV      uint64
		wantSettlements int
	}{
		"before timeout the premium is returned": {
			now:             startTime + 61,
			wantAliceIOV:    0,
			wantBobIOV:      100,
			wantSettlements: 2,
		},
		"at timeout the premium is returned": {
			now:             startTime + 120,
			wantAliceIOV:    0,
			wantBobIOV:      100,
			wantSettlements: 2,
		},
		"after timeout the premium is forfeited": {
			now:             startTime + 121,
			wantAliceIOV:    10,
			wantBobIOV:      90,
			wantSettlements: 2,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.setup(t)
			f.escrowPremium(t)
			f.escrowAsset(t)

			f.clock.Set(tc.now)
			ev, err := f.engine.RefundAsset(context.Background(), &RefundAssetMsg{
				CommitmentKey: f.key,
				Caller:        f.carol,
			})
			require.NoError(t, err)
			assert.Equal(t, KindAssetRefunded, ev.Kind)
			assert.Equal(t, "ETH", ev.Ticker)
			assert.Equal(t, f.alice, ev.Destination)
			assert.Len(t, ev.Settlements, tc.wantSettlements)

			assert.Equal(t, uint64(1000), f.balance(t, f.alice, "ETH"))
			assert.Equal(t, tc.wantAliceIOV, f.balance(t, f.alice, "IOV"))
			assert.Equal(t, tc.wantBobIOV, f.balance(t, f.bob, "IOV"))
		})
	}
}

func TestEscrowPremiumExcessStaysWithPayer(t *testing.T) {
	f := newFixture(t)
	f.setup(t)
	payerBefore := f.balance(t, f.bob, "IOV")

	ev, err := f.engine.EscrowPremium(context.Background(), &EscrowPremiumMsg{
		CommitmentKey: f.key,
		Caller:        f.bob,
		Payment:       50,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), ev.Amount)
	assert.Equal(t, uint64(10), ev.PremiumCurrent)
	assert.Equal(t, uint64(90), f.balance(t, f.bob, "IOV"))
	assert.Equal(t, payerBefore-10, f.balance(t, f.bob, "IOV"), "only the agreed premium leaves the payer")
	assert.Equal(t, uint64(10), f.balance(t, f.custody(), "IOV"))
}

// stage brings the fixture swap to a given point of its lifecycle.
type stage int

const (
	notSetUp stage = iota
	setUp
	premiumIn
	assetIn
)

func (f *fixture) bring(t testing.TB, s stage) {
	t.Helper()
	if s >= setUp {
		f.setup(t)
	}
	if s >= premiumIn {
		f.escrowPremium(t)
	}
	if s >= assetIn {
		f.escrowAsset(t)
	}
}

func TestTransitionGuards(t *testing.T) {
	cases := map[string]struct {
		stage   stage
		now     pswap.UnixTime
		run     func(f *fixture) error
		wantErr *errors.Error
	}{
		"setup twice": {
			stage: setUp,
			now:   startTime,
			run: func(f *fixture) error {
				_, err := f.engine.Setup(context.Background(), f.setupMsg())
				return err
			},
			wantErr: ErrAlreadySetUp,
		},
		"setup with delta above the limit": {
			stage: notSetUp,
			now:   startTime,
			run: func(f *fixture) error {
				msg := f.setupMsg()
				msg.Delta = 86401
				_, err := f.engine.Setup(context.Background(), msg)
				return err
			},
			wantErr: errors.ErrInvalidInput,
		},
		"setup with timeout in the past": {
			stage: notSetUp,
			now:   startTime + 121,
			run: func(f *fixture) error {
				_, err := f.engine.Setup(context.Background(), f.setupMsg())
				return err
			},
			wantErr: ErrTimeoutExceeded,
		},
		"setup with timeout now": {
			stage: notSetUp,
			now:   startTime + 120,
			run: func(f *fixture) error {
				_, err := f.engine.Setup(context.Background(), f.setupMsg())
				return err
			},
		},
		"setup with invalid message": {
			stage: notSetUp,
			now:   startTime,
			run: func(f *fixture) error {
				msg := f.setupMsg()
				msg.ExpectedPremium = 0
				_, err := f.engine.Setup(context.Background(), msg)
				return err
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"escrow premium not set up": {
			stage:   notSetUp,
			now:     startTime,
			run:     escrowPremiumAs(func(f *fixture) pswap.Address { return f.bob }, 10),
			wantErr: errors.ErrNotFound,
		},
		"escrow premium twice": {
			stage:   premiumIn,
			now:     startTime,
			run:     escrowPremiumAs(func(f *fixture) pswap.Address { return f.bob }, 10),
			wantErr: ErrAlreadyEscrowed,
		},
		"escrow premium by the asset escrower": {
			stage:   setUp,
			now:     startTime,
			run:     escrowPremiumAs(func(f *fixture) pswap.Address { return f.alice }, 10),
			wantErr: ErrWrongCaller,
		},
		"escrow premium with insufficient payment": {
			stage:   setUp,
			now:     startTime,
			run:     escrowPremiumAs(func(f *fixture) pswap.Address { return f.bob }, 9),
			wantErr: ErrInsufficientPayment,
		},
		"escrow premium at the deadline": {
			stage: setUp,
			now:   startTime + 60,
			run:   escrowPremiumAs(func(f *fixture) pswap.Address { return f.bob }, 10),
		},
		"escrow premium after the deadline": {
			stage:   setUp,
			now:     startTime + 61,
			run:     escrowPremiumAs(func(f *fixture) pswap.Address { return f.bob }, 10),
			wantErr: ErrDeadlineExceeded,
		},
		"escrow asset before the premium": {
			stage:   setUp,
			now:     startTime,
			run:     escrowAssetAs(func(f *fixture) pswap.Address { return f.alice }),
			wantErr: ErrPremiumNotEscrowed,
		},
		"escrow asset twice": {
			stage:   assetIn,
			now:     startTime,
			run:     escrowAssetAs(func(f *fixture) pswap.Address { return f.alice }),
			wantErr: ErrAlreadyEscrowed,
		},
		"escrow asset by the premium escrower": {
			stage:   premiumIn,
			now:     startTime,
			run:     escrowAssetAs(func(f *fixture) pswap.Address { return f.bob }),
			wantErr: ErrWrongCaller,
		},
		"escrow asset at the deadline": {
			stage: premiumIn,
			now:   startTime + 60,
			run:   escrowAssetAs(func(f *fixture) pswap.Address { return f.alice }),
		},
		"escrow asset after the deadline": {
			stage:   premiumIn,
			now:     startTime + 61,
			run:     escrowAssetAs(func(f *fixture) pswap.Address { return f.alice }),
			wantErr: ErrDeadlineExceeded,
		},
		"redeem asset with a wrong secret": {
			stage:   assetIn,
			now:     startTime,
			run:     redeemAssetWith(make([]byte, SecretSize), func(f *fixture) pswap.Address { return f.bob }),
			wantErr: ErrInvalidSecret,
		},
		"redeem asset with a short secret": {
			stage:   assetIn,
			now:     startTime,
			run:     redeemAssetWith([]byte("short"), func(f *fixture) pswap.Address { return f.bob }),
			wantErr: ErrInvalidSecret,
		},
		"redeem asset not escrowed": {
			stage:   premiumIn,
			now:     startTime,
			run:     redeemAssetWith(nil, func(f *fixture) pswap.Address { return f.bob }),
			wantErr: ErrAssetNotEscrowed,
		},
		"redeem asset by the asset escrower": {
			stage:   assetIn,
			now:     startTime,
			run:     redeemAssetWith(nil, func(f *fixture) pswap.Address { return f.alice }),
			wantErr: ErrWrongCaller,
		},
		"redeem asset at the timeout": {
			stage: assetIn,
			now:   startTime + 120,
			run:   redeemAssetWith(nil, func(f *fixture) pswap.Address { return f.bob }),
		},
		"redeem asset after the timeout": {
			stage:   assetIn,
			now:     startTime + 121,
			run:     redeemAssetWith(nil, func(f *fixture) pswap.Address { return f.bob }),
			wantErr: ErrTimeoutExceeded,
		},
		"refund premium not escrowed": {
			stage:   setUp,
			now:     startTime + 61,
			run:     refundPremium,
			wantErr: ErrPremiumNotEscrowed,
		},
		"refund premium after asset escrowed is rejected": {
			stage:   assetIn,
			now:     startTime + 61,
			run:     refundPremium,
			wantErr: ErrAlreadyEscrowed,
		},
		"refund premium at the deadline": {
			stage:   premiumIn,
			now:     startTime + 60,
			run:     refundPremium,
			wantErr: ErrDeadlineNotReached,
		},
		"refund asset not escrowed": {
			stage:   premiumIn,
			now:     startTime + 121,
			run:     refundAsset,
			wantErr: ErrAssetNotEscrowed,
		},
		"refund asset at the deadline": {
			stage:   assetIn,
			now:     startTime + 60,
			run:     refundAsset,
			wantErr: ErrDeadlineNotReached,
		},
		"redeem premium without asset is rejected": {
			stage:   premiumIn,
			now:     startTime + 121,
			run:     redeemPremium,
			wantErr: ErrAssetNotEscrowed,
		},
		"redeem premium not escrowed": {
			stage:   setUp,
			now:     startTime + 121,
			run:     redeemPremium,
			wantErr: ErrPremiumNotEscrowed,
		},
		"redeem premium at the timeout": {
			stage:   assetIn,
			now:     startTime + 120,
			run:     redeemPremium,
			wantErr: ErrTimeoutNotReached,
		},
		"redeem premium after the timeout": {
			stage: assetIn,
			now:   startTime + 121,
			run:   redeemPremium,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.bring(t, tc.stage)
			f.clock.Set(tc.now)

			before, _ := f.engine.Swap(context.Background(), f.key)
			balances := f.snapshot(t)
			events := len(f.sink.kinds())

			err := tc.run(f)
			pswapassert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Len(t, f.sink.kinds(), events+1)
				return
			}

			after, _ := f.engine.Swap(context.Background(), f.key)
			assert.Equal(t, before, after, "rejected transition must not change the swap")
			assert.Equal(t, balances, f.snapshot(t), "rejected transition must not move funds")
			assert.Len(t, f.sink.kinds(), events)
		})
	}
}

func TestTerminalTransitionsDeleteTheSwap(t *testing.T) {
	terminals := map[string]struct {
		stage stage
		now   pswap.UnixTime
		run   func(f *fixture) error
	}{
		"redeem asset":   {stage: assetIn, now: startTime + 100, run: redeemAssetWith(nil, func(f *fixture) pswap.Address { return f.bob })},
		"refund premium": {stage: premiumIn, now: startTime + 61, run: refundPremium},
		"refund asset":   {stage: assetIn, now: startTime + 61, run: refundAsset},
		"redeem premium": {stage: assetIn, now: startTime + 121, run: redeemPremium},
	}
	operations := map[string]func(f *fixture) error{
		"escrow premium": escrowPremiumAs(func(f *fixture) pswap.Address { return f.bob }, 10),
		"escrow asset":   escrowAssetAs(func(f *fixture) pswap.Address { return f.alice }),
		"redeem asset":   redeemAssetWith(nil, func(f *fixture) pswap.Address { return f.bob }),
		"refund premium": refundPremium,
		"refund asset":   refundAsset,
		"redeem premium": redeemPremium,
	}

	for terminalName, term := range terminals {
		t.Run(terminalName, func(t *testing.T) {
			f := newFixture(t)
			f.bring(t, term.stage)
			f.clock.Set(term.now)
			require.NoError(t, term.run(f))

			for opName, op := range operations {
				err := op(f)
				assert.True(t, errors.ErrNotFound.Is(err), "%s: %+v", opName, err)
			}

			// The key can be used again.
			f.clock.Set(startTime)
			f.setup(t)
		})
	}
}

func TestQueryByParty(t *testing.T) {
	f := newFixture(t)
	f.setup(t)

	other := f.setupMsg()
	secret := make([]byte, SecretSize)
	copy(secret, "another secret")
	other.CommitmentKey = HashSecret(secret)
	other.AssetEscrower = f.carol
	_, err := f.engine.Setup(context.Background(), other)
	require.NoError(t, err)

	ctx := context.Background()
	swaps, err := f.engine.SwapsByAssetEscrower(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, swaps, 1)
	assert.Equal(t, f.key, swaps[0].Key())

	swaps, err = f.engine.SwapsByPremiumEscrower(ctx, f.bob)
	require.NoError(t, err)
	assert.Len(t, swaps, 2)

	swaps, err = f.engine.SwapsByAssetEscrower(ctx, f.bob)
	require.NoError(t, err)
	assert.Len(t, swaps, 0)

	_, err = f.engine.SwapsByAssetEscrower(ctx, pswap.Address("short"))
	pswapassert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = f.engine.Swap(ctx, []byte("short"))
	pswapassert.IsErr(t, errors.ErrInvalidInput, err)

	f.escrowPremium(t)
	sched, err := f.engine.Deadlines(ctx, f.key)
	require.NoError(t, err)
	assert.Equal(t, PremiumEscrowed, sched.State)
}

// snapshot returns the balances of all accounts taking part in the fixture
// swap.
func (f *fixture) snapshot(t testing.TB) map[string]uint64 {
	t.Helper()
	res := make(map[string]uint64)
	accounts := map[string]pswap.Address{
		"alice":   f.alice,
		"bob":     f.bob,
		"carol":   f.carol,
		"custody": f.custody(),
	}
	for name, addr := range accounts {
		for _, ticker := range []string{"ETH", "IOV", "FEE"} {
			res[name+"/"+ticker] = f.balance(t, addr, ticker)
		}
	}
	return res
}

func escrowPremiumAs(caller func(*fixture) pswap.Address, payment uint64) func(*fixture) error {
	return func(f *fixture) error {
		_, err := f.engine.EscrowPremium(context.Background(), &EscrowPremiumMsg{
			CommitmentKey: f.key,
			Caller:        caller(f),
			Payment:       payment,
		})
		return err
	}
}

func escrowAssetAs(caller func(*fixture) pswap.Address) func(*fixture) error {
	return func(f *fixture) error {
		_, err := f.engine.EscrowAsset(context.Background(), &EscrowAssetMsg{
			CommitmentKey: f.key,
			Caller:        caller(f),
		})
		return err
	}
}

// redeemAssetWith uses the fixture secret if secret is nil.
func redeemAssetWith(secret []byte, caller func(*fixture) pswap.Address) func(*fixture) error {
	return func(f *fixture) error {
		s := secret
		if s == nil {
			s = f.secret
		}
		_, err := f.engine.RedeemAsset(context.Background(), &RedeemAssetMsg{
			CommitmentKey: f.key,
			Secret:        s,
			Caller:        caller(f),
		})
		return err
	}
}

func refundPremium(f *fixture) error {
	_, err := f.engine.RefundPremium(context.Background(), &RefundPremiumMsg{
		CommitmentKey: f.key,
		Caller:        f.carol,
	})
	return err
}

func refundAsset(f *fixture) error {
	_, err := f.engine.RefundAsset(context.Background(), &RefundAssetMsg{
		CommitmentKey: f.key,
		Caller:        f.carol,
	})
	return err
}

func redeemPremium(f *fixture) error {
	_, err := f.engine.RedeemPremium(context.Background(), &RedeemPremiumMsg{
		CommitmentKey: f.key,
		Caller:        f.carol,
	})
	return err
}
