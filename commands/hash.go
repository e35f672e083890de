package commands

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/x/swap"
)

type hashResult struct {
	Secret        string `json:"secret"`
	CommitmentKey string `json:"commitment_key"`
}

func newHashCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "hash [secret]",
		Short: "Compute the commitment key of a secret",
		Long: `Compute the commitment key of a hex encoded secret. Without an argument a
new random secret is generated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := make([]byte, swap.SecretSize)
			if len(args) == 1 {
				var err error
				if secret, err = parseHex("secret", args[0]); err != nil {
					return err
				}
				if len(secret) != swap.SecretSize {
					return errors.Wrapf(swap.ErrInvalidSecret, "secret must be %d bytes", swap.SecretSize)
				}
			} else if _, err := rand.Read(secret); err != nil {
				return errors.Wrap(errors.ErrHuman, err.Error())
			}
			return e.print(hashResult{
				Secret:        hex.EncodeToString(secret),
				CommitmentKey: hex.EncodeToString(swap.HashSecret(secret)),
			})
		},
	}
}
