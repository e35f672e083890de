package cash

import (
	"context"
	"testing"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/pswaptest"
	"github.com/iov-one/pswap/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayTransfer(t *testing.T) {
	alice, custody := pswaptest.NamedAddress("alice"), pswaptest.NamedAddress("custody")
	collector := pswaptest.NamedAddress("collector")

	cases := map[string]struct {
		fees          coin.Coins
		ticker        string
		amount        uint64
		wantErr       *errors.Error
		wantDelivered uint64
		wantCollected uint64
	}{
		"no fee": {
			ticker:        "ETH",
			amount:        100,
			wantDelivered: 100,
		},
		"fee on transfer": {
			fees:          coin.Coins{coin.NewCoinp(3, "ETH")},
			ticker:        "ETH",
			amount:        100,
			wantDelivered: 97,
			wantCollected: 3,
		},
		"fee of other ticker": {
			fees:          coin.Coins{coin.NewCoinp(3, "BTC")},
			ticker:        "ETH",
			amount:        100,
			wantDelivered: 100,
		},
		"fee not covered": {
			fees:    coin.Coins{coin.NewCoinp(100, "ETH")},
			ticker:  "ETH",
			amount:  100,
			wantErr: errors.ErrInvalidAmount,
		},
		"native is never charged": {
			fees:          coin.Coins{coin.NewCoinp(3, "IOV")},
			ticker:        "IOV",
			amount:        100,
			wantDelivered: 100,
		},
		"insufficient funds": {
			ticker:  "ETH",
			amount:  5000,
			wantErr: errors.ErrInsufficientAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			conf := &Configuration{
				NativeTicker:     "IOV",
				CollectorAddress: collector,
				TransferFees:     tc.fees,
			}
			require.NoError(t, SaveConfiguration(db, conf))

			ctrl := NewController(NewBucket())
			require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(1000, "ETH")))
			require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(1000, "IOV")))

			gw := NewGateway(ctrl)
			delivered, err := gw.TransferIn(context.Background(), db, tc.ticker, alice, custody, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantDelivered, delivered)
			assert.Equal(t, tc.wantDelivered, balance(t, ctrl, db, custody, tc.ticker))
			assert.Equal(t, tc.wantCollected, balance(t, ctrl, db, collector, tc.ticker))
			assert.Equal(t, 1000-tc.amount, balance(t, ctrl, db, alice, tc.ticker))

			back, err := gw.TransferOut(context.Background(), db, tc.ticker, custody, alice, delivered)
			require.NoError(t, err)
			// The fee is charged again on the way back.
			assert.Equal(t, delivered-tc.wantCollected, back)
			assert.Equal(t, uint64(0), balance(t, ctrl, db, custody, tc.ticker))
			assert.Equal(t, 2*tc.wantCollected, balance(t, ctrl, db, collector, tc.ticker))
			assert.Equal(t, 1000-tc.amount+back, balance(t, ctrl, db, alice, tc.ticker))
		})
	}
}

func TestGatewayNativeTransfer(t *testing.T) {
	db := store.MemStore()
	alice, bob := pswaptest.NewAddress(), pswaptest.NewAddress()
	ctrl := NewController(NewBucket())
	gw := NewGateway(ctrl)

	err := gw.NativeTransfer(context.Background(), db, alice, bob, 1)
	assert.True(t, errors.ErrNotFound.Is(err), "configuration is required")

	require.NoError(t, SaveConfiguration(db, &Configuration{NativeTicker: "IOV"}))
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(10, "IOV")))

	ctx := pswap.WithLogInfo(context.Background(), "test", t.Name())
	require.NoError(t, gw.NativeTransfer(ctx, db, alice, bob, 4))
	assert.Equal(t, uint64(6), balance(t, ctrl, db, alice, "IOV"))
	assert.Equal(t, uint64(4), balance(t, ctrl, db, bob, "IOV"))

	err = gw.NativeTransfer(ctx, db, alice, bob, 7)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
}
