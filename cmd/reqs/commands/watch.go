package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [manifests...]",
		Short: "Re-run check whenever files change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), args, checkOptions(cmd))
		},
	}
	addCheckFlags(cmd)
	return cmd
}
