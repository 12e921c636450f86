package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/errors"
)

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	RunID       string    `json:"run_id,omitempty"`
	FileCount   int       `json:"file_count"`
	ToolVersion string    `json:"tool_version"`
}

// listOutput represents the JSON output for backup list.
type listOutput struct {
	Target  string       `json:"target"`
	Backups []infoOutput `json:"backups"`
}

func newListCmd(o *options) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "list",
		Short: "List available backups",
		Long:  `List the backups of a repository, most recent first.`,
		Example: `  pre-release-check backup list
  pre-release-check backup list --json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runList(c.OutOrStdout(), o, asJSON)
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return c
}

func runList(w io.Writer, o *options, asJSON bool) error {
	root, ns, err := o.namespace()
	if err != nil {
		return err
	}

	manifests, err := o.manager().List(ns)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrap(err, "listing backups")
	}

	if asJSON {
		out := listOutput{Target: root, Backups: make([]infoOutput, len(manifests))}
		for i, m := range manifests {
			out.Backups[i] = infoOutput{
				ID:          m.ID,
				CreatedAt:   m.CreatedAt,
				RunID:       m.RunID,
				FileCount:   len(m.Files),
				ToolVersion: m.ToolVersion,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding output")
	}

	fmt.Fprintf(w, "%s %s\n", bold("Repository:"), root)
	if len(manifests) == 0 {
		fmt.Fprintf(w, "  %s\n", gray("(no backups available)"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created when --fix modifies files.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tCREATED\tFILES\tVERSION")
	for _, m := range manifests {
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n",
			m.ID,
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			len(m.Files),
			m.ToolVersion)
	}
	return tw.Flush()
}
