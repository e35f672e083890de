package commands

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/spf13/cobra"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/x/swap"
)

const (
	flagKey    = "key"
	flagCaller = "caller"
)

// transitionFunc executes a single engine operation.
type transitionFunc func(ctx context.Context, engine *swap.Engine) (*swap.Event, error)

// runTransition executes fn on an opened node and prints the emitted event.
func (e *env) runTransition(ctx context.Context, fn transitionFunc) error {
	return e.withNode(func(n *node) error {
		ev, err := fn(ctx, n.engine)
		if err != nil {
			return err
		}
		return e.print(ev)
	})
}

func newSetupCommand(e *env) *cobra.Command {
	var (
		assetEscrower, premiumEscrower string
		ticker, key                    string
		asset, premium                 uint64
		start                          int64
		delta                          time.Duration
		assetFirst                     bool
	)
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register a new swap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &swap.SetupMsg{
				ExpectedAsset:      asset,
				ExpectedPremium:    premium,
				AssetTicker:        ticker,
				StartTime:          pswap.UnixTime(start),
				AssetEscrowedFirst: assetFirst,
				Delta:              pswap.AsUnixDuration(delta),
			}
			if start == 0 {
				msg.StartTime = pswap.SystemClock.Now()
			}
			var err error
			if msg.AssetEscrower, err = parseAddress("asset escrower", assetEscrower); err != nil {
				return err
			}
			if msg.PremiumEscrower, err = parseAddress("premium escrower", premiumEscrower); err != nil {
				return err
			}
			if msg.CommitmentKey, err = parseHex("commitment key", key); err != nil {
				return err
			}
			return e.runTransition(cmd.Context(), func(ctx context.Context, engine *swap.Engine) (*swap.Event, error) {
				return engine.Setup(ctx, msg)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&assetEscrower, "asset-escrower", "", "address of the party escrowing the asset")
	f.StringVar(&premiumEscrower, "premium-escrower", "", "address of the party escrowing the premium")
	f.StringVar(&ticker, "ticker", "", "ticker of the swapped asset")
	f.Uint64Var(&asset, "asset", 0, "expected asset amount")
	f.Uint64Var(&premium, "premium", 0, "expected premium amount")
	f.StringVar(&key, flagKey, "", "hex encoded commitment key")
	f.Int64Var(&start, "start", 0, "unix start time, now if zero")
	f.DurationVar(&delta, "delta", time.Hour, "time given to each step of the swap")
	f.BoolVar(&assetFirst, "asset-first", false, "allow the asset to be escrowed only until the premium deadline")
	return cmd
}

func newEscrowPremiumCommand(e *env) *cobra.Command {
	var (
		key, caller string
		payment     uint64
	)
	cmd := &cobra.Command{
		Use:   "escrow-premium",
		Short: "Lock the premium of a swap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &swap.EscrowPremiumMsg{Payment: payment}
			var err error
			if msg.CommitmentKey, msg.Caller, err = parseCall(key, caller); err != nil {
				return err
			}
			return e.runTransition(cmd.Context(), func(ctx context.Context, engine *swap.Engine) (*swap.Event, error) {
				return engine.EscrowPremium(ctx, msg)
			})
		},
	}
	addCallFlags(cmd, &key, &caller)
	cmd.Flags().Uint64Var(&payment, "payment", 0, "amount offered, at least the expected premium")
	return cmd
}

func newEscrowAssetCommand(e *env) *cobra.Command {
	var key, caller string
	cmd := &cobra.Command{
		Use:   "escrow-asset",
		Short: "Lock the asset of a swap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &swap.EscrowAssetMsg{}
			var err error
			if msg.CommitmentKey, msg.Caller, err = parseCall(key, caller); err != nil {
				return err
			}
			return e.runTransition(cmd.Context(), func(ctx context.Context, engine *swap.Engine) (*swap.Event, error) {
				return engine.EscrowAsset(ctx, msg)
			})
		},
	}
	addCallFlags(cmd, &key, &caller)
	return cmd
}

func newRedeemAssetCommand(e *env) *cobra.Command {
	var key, caller, secret string
	cmd := &cobra.Command{
		Use:   "redeem-asset",
		Short: "Release the asset in exchange for the secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &swap.RedeemAssetMsg{}
			var err error
			if msg.CommitmentKey, msg.Caller, err = parseCall(key, caller); err != nil {
				return err
			}
			if msg.Secret, err = parseHex("secret", secret); err != nil {
				return err
			}
			return e.runTransition(cmd.Context(), func(ctx context.Context, engine *swap.Engine) (*swap.Event, error) {
				return engine.RedeemAsset(ctx, msg)
			})
		},
	}
	addCallFlags(cmd, &key, &caller)
	cmd.Flags().StringVar(&secret, "secret", "", "hex encoded secret")
	return cmd
}

func newRefundPremiumCommand(e *env) *cobra.Command {
	var key, caller string
	cmd := &cobra.Command{
		Use:   "refund-premium",
		Short: "Return the premium of a swap whose asset was never escrowed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &swap.RefundPremiumMsg{}
			var err error
			if msg.CommitmentKey, msg.Caller, err = parseCall(key, caller); err != nil {
				return err
			}
			return e.runTransition(cmd.Context(), func(ctx context.Context, engine *swap.Engine) (*swap.Event, error) {
				return engine.RefundPremium(ctx, msg)
			})
		},
	}
	addCallFlags(cmd, &key, &caller)
	return cmd
}

func newRefundAssetCommand(e *env) *cobra.Command {
	var key, caller string
	cmd := &cobra.Command{
		Use:   "refund-asset",
		Short: "Return the asset of a swap after its asset deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &swap.RefundAssetMsg{}
			var err error
			if msg.CommitmentKey, msg.Caller, err = parseCall(key, caller); err != nil {
				return err
			}
			return e.runTransition(cmd.Context(), func(ctx context.Context, engine *swap.Engine) (*swap.Event, error) {
				return engine.RefundAsset(ctx, msg)
			})
		},
	}
	addCallFlags(cmd, &key, &caller)
	return cmd
}

func newRedeemPremiumCommand(e *env) *cobra.Command {
	var key, caller string
	cmd := &cobra.Command{
		Use:   "redeem-premium",
		Short: "Pay the premium to the asset escrower after the swap timed out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &swap.RedeemPremiumMsg{}
			var err error
			if msg.CommitmentKey, msg.Caller, err = parseCall(key, caller); err != nil {
				return err
			}
			return e.runTransition(cmd.Context(), func(ctx context.Context, engine *swap.Engine) (*swap.Event, error) {
				return engine.RedeemPremium(ctx, msg)
			})
		},
	}
	addCallFlags(cmd, &key, &caller)
	return cmd
}

func addCallFlags(cmd *cobra.Command, key, caller *string) {
	cmd.Flags().StringVar(key, flagKey, "", "hex encoded commitment key")
	cmd.Flags().StringVar(caller, flagCaller, "", "address of the caller")
}

func parseCall(key, caller string) ([]byte, pswap.Address, error) {
	k, err := parseHex("commitment key", key)
	if err != nil {
		return nil, nil, err
	}
	addr, err := parseAddress("caller", caller)
	if err != nil {
		return nil, nil, err
	}
	return k, addr, nil
}

func parseHex(name, raw string) ([]byte, error) {
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%s is not hex", name)
	}
	return b, nil
}

func parseAddress(name, raw string) (pswap.Address, error) {
	addr, err := pswap.ParseAddress(raw)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return addr, nil
}
