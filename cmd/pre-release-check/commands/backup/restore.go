package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/errors"
)

func newRestoreCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [backup-id]",
		Short: "Restore from a backup",
		Long: `Restore the files of a backup to their original locations.

If no backup ID is provided, the most recent backup of the repository is
restored. Every file is verified against its recorded hash before it is
copied back, and its permissions are restored. Existing files are
overwritten.`,
		Example: `  # Restore the most recent backup
  pre-release-check backup restore

  # Restore a specific backup
  pre-release-check backup restore 20261019T100712-1a2b3c4d

  See Also:
    pre-release-check backup list - List available backups`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runRestore(c.OutOrStdout(), o, args)
		},
	}
}

func runRestore(w io.Writer, o *options, args []string) error {
	root, ns, err := o.namespace()
	if err != nil {
		return err
	}
	mgr := o.manager()

	var backupID string
	if len(args) > 0 {
		backupID = args[0]
	} else {
		manifests, err := mgr.List(ns)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.Newf("no backups found for %s", root)
			}
			return errors.Wrap(err, "listing backups")
		}
		backupID = manifests[0].ID
		fmt.Fprintf(w, "Using most recent backup: %s\n", backupID)
	}

	manifest, err := mgr.Get(ns, backupID)
	if err != nil {
		return errors.Wrapf(err, "getting backup %s", backupID)
	}

	fmt.Fprintf(w, "Restoring %d file(s) from backup %s...\n", len(manifest.Files), backupID)

	if err := mgr.Restore(ns, backupID); err != nil {
		return errors.Wrap(err, "restoring backup")
	}

	fmt.Fprintf(w, "%s Restored %s from backup %s\n", green("✓"), root, backupID)
	return nil
}
