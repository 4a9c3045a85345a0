package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/reqs/internal/app"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [manifests...]",
		Short: "Compare manifests with their locked state",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			exitCode, _ := cmd.Flags().GetBool("exit-code")
			return c.app.Status(cmd.Context(), args, app.StatusOptions{
				Format:   format,
				ExitCode: exitCode,
			})
		},
	}
	cmd.Flags().Bool("exit-code", false, "Exit with status 1 when a manifest was modified or never locked")
	return cmd
}
