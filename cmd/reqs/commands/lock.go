package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock [manifests...]",
		Short: "Record the current state of manifests",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Lock(cmd.Context(), args)
		},
	}
}
