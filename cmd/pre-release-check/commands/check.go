package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/cli/prompt"
	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/logging"
	"github.com/thoreinstein/prerelease/internal/metrics"
	"github.com/thoreinstein/prerelease/internal/paths"
	"github.com/thoreinstein/prerelease/internal/report"
	"github.com/thoreinstein/prerelease/internal/runner"
	"github.com/thoreinstein/prerelease/internal/tool"
	"github.com/thoreinstein/prerelease/internal/validator"
	"github.com/thoreinstein/prerelease/internal/validators"
)

// selectFunc picks validators interactively. Tests replace it.
var selectFunc = func(choices []prompt.Choice) ([]string, error) {
	return prompt.NewSelector().SelectValidators(choices)
}

// tools is the subprocess runner handed to validators. Tests replace it.
var tools tool.Runner = tool.NewExec()

func runCheck(c *cobra.Command, args []string, o *rootOptions) error {
	ctx := c.Context()
	logger := logging.FromContext(ctx)
	out := c.OutOrStdout()

	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	root, err := paths.ResolveTarget(path)
	if err != nil {
		return errors.NewUsageError(err, "Pass the path of an existing directory")
	}

	config.Init()
	cfg, err := config.Load(root, o.configPath)
	if err != nil {
		return errors.NewConfigError(err)
	}
	if used := config.FileUsed(); used != "" {
		logger.Info("loaded config", "path", used)
	}

	reg := validators.DefaultRegistry(cfg, tools)
	if err := config.Validate(cfg, reg.Names()); err != nil {
		return errors.NewConfigError(err)
	}

	opts, err := o.buildOptions(c, cfg, reg)
	if err != nil {
		return err
	}
	if opts.OutputPath != "" {
		if err := report.CheckWritable(opts.OutputPath); err != nil {
			return errors.NewConfigError(err)
		}
	}

	mgr := backup.NewManager()
	namespace := paths.TargetKey(root)
	recorder := metrics.NewRecorder()

	r := runner.New(reg,
		runner.WithBackups(mgr, namespace),
		runner.WithDisabled(cfg.Disabled...),
		runner.WithObserver(recorder),
	)

	rep, err := r.Run(ctx, validator.NewTarget(root, cfg.Exclude), opts)
	if err != nil {
		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		return errors.NewSystemError(errors.Wrap(err, "running validators"), "")
	}

	if rep.BackupID != "" {
		if !o.quiet {
			fmt.Fprintf(out, "Backed up modified files as %s (restore with: pre-release-check backup restore %s)\n",
				rep.BackupID, rep.BackupID)
		}
		if _, err := mgr.Prune(namespace, mgr.RetentionCount()); err != nil {
			logger.Warn("pruning old backups", "error", err)
		}
	}

	if o.metricsFile != "" {
		recorder.RunFinished(rep)
		if err := recorder.WriteTextfile(o.metricsFile); err != nil {
			logger.Warn("metrics not written", "error", err)
		}
	}

	if err := emit(out, rep, opts, o); err != nil {
		return err
	}

	if rep.Failed() {
		return errors.NewFailureError(rep.TotalErrors, rep.TotalWarnings)
	}
	return nil
}

// emit writes the report to the output file, or to out when there is none.
// A styled summary accompanies text output and file reports.
func emit(out io.Writer, rep *validator.Report, opts validator.Options, o *rootOptions) error {
	if opts.OutputPath == "" {
		renderer := report.NewRenderer(out, opts.Format,
			report.WithColor(opts.Format == validator.FormatText && o.colorMode.Enabled(out)))
		if err := renderer.Render(rep); err != nil {
			return errors.NewSystemError(errors.Mark(err, errors.ErrReportWrite), "")
		}
		if opts.Format == validator.FormatText && !o.quiet {
			fmt.Fprint(out, "\n"+report.Summary(rep))
		}
		return nil
	}

	if err := report.WriteFile(opts.OutputPath, rep, opts.Format); err != nil {
		return err
	}
	if !o.quiet {
		fmt.Fprint(out, report.Summary(rep))
		fmt.Fprintf(out, "Report written to %s\n", opts.OutputPath)
	}
	return nil
}

// buildOptions layers explicitly set flags over the configuration file.
func (o *rootOptions) buildOptions(c *cobra.Command, cfg *config.Config, reg *validator.Registry) (validator.Options, error) {
	opts := validator.DefaultOptions()
	flags := c.Flags()

	opts.Strict = cfg.Strict || o.strict
	opts.Parallel = cfg.Parallel || o.parallel
	opts.Fix = o.fix

	opts.Format = validator.Format(cfg.Format)
	if flags.Changed("format") || opts.Format == "" {
		opts.Format = validator.Format(o.format)
	}
	opts.OutputPath = cfg.Output
	if flags.Changed("output") {
		opts.OutputPath = o.output
	}
	if cfg.Timeout > 0 {
		opts.Timeout = cfg.Timeout
	}
	if flags.Changed("timeout") {
		opts.Timeout = o.timeout
	}
	opts.RunTimeout = cfg.RunTimeout
	if flags.Changed("run-timeout") {
		opts.RunTimeout = o.runTimeout
	}
	if cfg.Concurrency > 0 {
		opts.Concurrency = cfg.Concurrency
	}
	if flags.Changed("concurrency") {
		opts.Concurrency = o.concurrency
	}

	selected := reg.Names()
	if len(cfg.Validators) > 0 {
		selected = slices.Clone(cfg.Validators)
	}
	if flags.Changed("only") {
		selected = trimNames(o.only)
	}

	skip := trimNames(o.skip)
	var unknown []string
	for _, name := range skip {
		if _, ok := reg.Get(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		err := errors.Wrapf(errors.ErrUnknownValidator, "--skip: %s", strings.Join(unknown, ", "))
		return opts, errors.NewConfigError(err)
	}
	selected = slices.DeleteFunc(selected, func(name string) bool {
		return slices.Contains(skip, name)
	})

	if o.interactive {
		picked, err := pick(reg, selected)
		if err != nil {
			return opts, err
		}
		selected = picked
	}

	opts.Selected = selected
	return opts, nil
}

// pick offers the known validators among selected for interactive selection.
func pick(reg *validator.Registry, selected []string) ([]string, error) {
	var choices []prompt.Choice
	for _, name := range selected {
		v, ok := reg.Get(name)
		if !ok {
			// Unknown names are reported by the runner.
			return selected, nil
		}
		choices = append(choices, prompt.Choice{
			Name:     name,
			Category: v.Category(),
			Fixable:  validator.CanFix(v),
		})
	}

	picked, err := selectFunc(choices)
	if err != nil {
		if errors.Is(err, prompt.ErrNoChoices) {
			return []string{}, nil
		}
		return nil, errors.NewUsageError(errors.Wrap(err, "selecting validators"), "")
	}
	return picked, nil
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
