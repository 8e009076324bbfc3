package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/starchart/pkg/buildinfo"
)

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version, commit and build date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), appName, buildinfo.String())
			return nil
		},
	}
}
