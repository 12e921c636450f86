package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/validator"
	"github.com/thoreinstein/prerelease/internal/validators"
)

// validatorInfo is the JSON shape of one listed validator.
type validatorInfo struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Fix      bool   `json:"fix"`
}

func newValidatorsCmd(o *rootOptions) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "validators",
		Short: "List the available validators",
		Long: `List every registered validator in execution order with its category
and whether it can repair problems in --fix mode.`,
		Example: `  pre-release-check validators
  pre-release-check validators --json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(c *cobra.Command, _ []string) error {
			config.Init()
			cfg, err := config.Load(".", o.configPath)
			if err != nil {
				return errors.NewConfigError(err)
			}
			reg := validators.DefaultRegistry(cfg, tools)
			return listValidators(c.OutOrStdout(), reg, asJSON)
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	c.Flags().StringVarP(&o.configPath, "config", "c", "", "config file")
	return c
}

func listValidators(w io.Writer, reg *validator.Registry, asJSON bool) error {
	all := reg.All()
	infos := make([]validatorInfo, len(all))
	for i, v := range all {
		infos[i] = validatorInfo{
			Name:     v.Name(),
			Category: v.Category(),
			Fix:      validator.CanFix(v),
		}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tFIX")
	for _, info := range infos {
		fix := "-"
		if info.Fix {
			fix = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Category, fix)
	}
	return tw.Flush()
}
