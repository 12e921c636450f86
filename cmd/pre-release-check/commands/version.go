package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prerelease/cmd"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  `Print the version, commit, and build date of pre-release-check.`,
		Args:  usageArgs(cobra.NoArgs),
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprint(c.OutOrStdout(), cmd.Info())
		},
	}
}
