package commands

import (
	"github.com/spf13/cobra"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/x/swap"
)

// swapResult is a stored swap together with the values derived from it.
type swapResult struct {
	*swap.Swap
	State   swap.State    `json:"state"`
	Custody pswap.Address `json:"custody"`
}

func newSwapResult(s *swap.Swap) swapResult {
	return swapResult{Swap: s, State: s.State(), Custody: swap.CustodyAddress(s.Key())}
}

type balanceResult struct {
	Address pswap.Address `json:"address"`
	Coins   coin.Coins    `json:"coins"`
}

func newQueryCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read the state",
	}
	cmd.AddCommand(
		newQuerySwapCommand(e),
		newQuerySwapsCommand(e),
		newQueryDeadlinesCommand(e),
		newQueryBalanceCommand(e),
		newQueryEventsCommand(e),
	)
	return cmd
}

func newQuerySwapCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "swap <commitment key>",
		Short: "Show a single swap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseHex("commitment key", args[0])
			if err != nil {
				return err
			}
			return e.withNode(func(n *node) error {
				s, err := n.engine.Swap(cmd.Context(), key)
				if err != nil {
					return err
				}
				return e.print(newSwapResult(s))
			})
		},
	}
}

func newQuerySwapsCommand(e *env) *cobra.Command {
	var assetEscrower, premiumEscrower string
	cmd := &cobra.Command{
		Use:   "swaps",
		Short: "List the open swaps of a party",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (assetEscrower == "") == (premiumEscrower == "") {
				return errors.Wrap(errors.ErrInvalidInput, "exactly one of --asset-escrower and --premium-escrower is required")
			}
			return e.withNode(func(n *node) error {
				var (
					swaps []*swap.Swap
					err   error
				)
				if assetEscrower != "" {
					addr, perr := parseAddress("asset escrower", assetEscrower)
					if perr != nil {
						return perr
					}
					swaps, err = n.engine.SwapsByAssetEscrower(cmd.Context(), addr)
				} else {
					addr, perr := parseAddress("premium escrower", premiumEscrower)
					if perr != nil {
						return perr
					}
					swaps, err = n.engine.SwapsByPremiumEscrower(cmd.Context(), addr)
				}
				if err != nil {
					return err
				}
				res := make([]swapResult, 0, len(swaps))
				for _, s := range swaps {
					res = append(res, newSwapResult(s))
				}
				return e.print(res)
			})
		},
	}
	cmd.Flags().StringVar(&assetEscrower, "asset-escrower", "", "address of the asset escrower")
	cmd.Flags().StringVar(&premiumEscrower, "premium-escrower", "", "address of the premium escrower")
	return cmd
}

func newQueryDeadlinesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "deadlines <commitment key>",
		Short: "Show the deadlines and the state of a swap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseHex("commitment key", args[0])
			if err != nil {
				return err
			}
			return e.withNode(func(n *node) error {
				sched, err := n.engine.Deadlines(cmd.Context(), key)
				if err != nil {
					return err
				}
				return e.print(sched)
			})
		},
	}
}

func newQueryBalanceCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the coins held by an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress("address", args[0])
			if err != nil {
				return err
			}
			return e.withNode(func(n *node) error {
				var coins coin.Coins
				err := n.engine.View(func(db pswap.ReadOnlyKVStore) error {
					var err error
					coins, err = n.ledger.Balance(db, addr)
					return err
				})
				if err != nil {
					return err
				}
				if coins == nil {
					coins = coin.Coins{}
				}
				return e.print(balanceResult{Address: addr, Coins: coins})
			})
		},
	}
}

func newQueryEventsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "events <commitment key>",
		Short: "Show the events recorded in the SQLite event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseHex("commitment key", args[0])
			if err != nil {
				return err
			}
			return e.withNode(func(n *node) error {
				if n.audit == nil {
					return errors.Wrap(errors.ErrInvalidInput, "--sqlite-path is required")
				}
				events, err := n.audit.History(cmd.Context(), key)
				if err != nil {
					return err
				}
				if events == nil {
					events = []swap.Event{}
				}
				return e.print(events)
			})
		},
	}
}
