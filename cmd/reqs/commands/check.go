package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/reqs/internal/app"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [manifests...]",
		Short: "Report syntax errors and lint findings",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Check(cmd.Context(), args, checkOptions(cmd))
		},
	}
	addCheckFlags(cmd)
	return cmd
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "Treat warnings as errors")
	cmd.Flags().StringSlice("disable", nil, "Lint rules to skip (duplicate, unpinned, invalid-version, insecure-index, mutable-ref)")
}

func checkOptions(cmd *cobra.Command) app.CheckOptions {
	format, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")
	disable, _ := cmd.Flags().GetStringSlice("disable")
	return app.CheckOptions{
		Format:  format,
		Strict:  strict,
		Disable: disable,
	}
}
