package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/reqs/internal/app"
)

func (c *CLI) newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [manifests...]",
		Short: "Rewrite manifests in canonical form",
		Long: "Print manifests in canonical form. With --write the files are updated in place, " +
			"with --check the command lists files that need formatting and fails if there are any.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetBool("write")
			check, _ := cmd.Flags().GetBool("check")
			return c.app.Format(cmd.Context(), args, app.FormatOptions{
				Write: write,
				Check: check,
			})
		},
	}
	cmd.Flags().BoolP("write", "w", false, "Write the result back to the manifest files")
	cmd.Flags().Bool("check", false, "Fail if any manifest is not formatted")
	cmd.MarkFlagsMutuallyExclusive("write", "check")
	return cmd
}
