package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/errors"
)

func newPruneCmd(o *options) *cobra.Command {
	var keep int

	c := &cobra.Command{
		Use:   "prune",
		Short: "Remove old backups",
		Long: `Remove old backups beyond the retention count.

By default, keeps the 5 most recent backups of the repository and removes
older ones. Use the --keep flag to specify a different retention count.`,
		Example: `  # Keep the default (5) backups
  pre-release-check backup prune

  # Remove all backups (keep 0)
  pre-release-check backup prune --keep 0`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runPrune(c.OutOrStdout(), o, keep)
		},
	}
	c.Flags().IntVar(&keep, "keep", backup.DefaultRetentionCount, "Number of backups to retain")
	return c
}

func runPrune(w io.Writer, o *options, keep int) error {
	if keep < 0 {
		return errors.NewUsageError(errors.New("--keep must be non-negative"), "")
	}

	_, ns, err := o.namespace()
	if err != nil {
		return err
	}

	removed, err := o.manager().Prune(ns, keep)
	if err != nil {
		return errors.Wrap(err, "pruning backups")
	}

	if removed == 0 {
		fmt.Fprintln(w, "No backups to prune")
		return nil
	}
	fmt.Fprintf(w, "%s Removed %d old backup(s)\n", green("✓"), removed)
	return nil
}
