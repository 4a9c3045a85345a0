package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/reqs/internal/app"
)

func (c *CLI) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [manifests...]",
		Short: "Print the records of manifests and the manifests they include",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return c.app.Parse(cmd.Context(), args, app.ParseOptions{Format: format})
		},
	}
}
