package commands

import (
	"github.com/spf13/cobra"

	"github.com/iov-one/pswap"
)

func newVersionCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte(pswap.Version() + "\n"))
			return err
		},
	}
}
