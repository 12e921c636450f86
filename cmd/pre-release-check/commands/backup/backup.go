// Package backup provides CLI commands for managing fix-mode backups.
package backup

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/paths"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

// options holds the flags shared by the backup subcommands.
type options struct {
	dir string
}

// namespace resolves the repository directory to its backup namespace.
func (o *options) namespace() (string, string, error) {
	root, err := paths.ResolveTarget(o.dir)
	if err != nil {
		return "", "", errors.NewUsageError(err, "Pass an existing repository directory with --dir")
	}
	return root, paths.TargetKey(root), nil
}

func (o *options) manager() *backup.Manager {
	return backup.NewManager()
}

// NewCmd builds the backup command group.
func NewCmd() *cobra.Command {
	o := &options{}

	c := &cobra.Command{
		Use:   "backup",
		Short: "Manage fix-mode backups",
		Long: `Manage the backups written by --fix.

Before a validator modifies a file in fix mode, pre-release-check copies it
into a backup for the run. Backups are kept per repository; this command
group lists, restores and prunes them.

Backups are stored under the XDG data directory
(pre-release-check/backups), or PRC_BACKUP_DIR when set.`,
		Example: `  # List backups of the current repository
  pre-release-check backup list

  # Restore the most recent backup of another repository
  pre-release-check backup restore --dir ../infra

  # Remove old backups, keeping the 3 most recent
  pre-release-check backup prune --keep 3

  See Also:
    pre-release-check backup list    - List available backups
    pre-release-check backup restore - Restore from a backup
    pre-release-check backup prune   - Remove old backups`,
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}
	c.PersistentFlags().StringVarP(&o.dir, "dir", "C", ".", "repository the backups belong to")

	c.AddCommand(
		newListCmd(o),
		newRestoreCmd(o),
		newPruneCmd(o),
	)
	return c
}
