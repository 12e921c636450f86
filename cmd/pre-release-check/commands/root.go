// Package commands implements the pre-release-check command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/prerelease/cmd"
	"github.com/thoreinstein/prerelease/cmd/pre-release-check/commands/backup"
	ibackup "github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/logging"
	"github.com/thoreinstein/prerelease/internal/validator"
)

const helpSuggestion = "Run 'pre-release-check --help' for usage"

// rootOptions holds the flag values of one command tree.
type rootOptions struct {
	verbosity int
	quiet     bool
	logFormat string
	logFile   string
	color     string
	colorMode logging.ColorMode

	configPath  string
	strict      bool
	fix         bool
	parallel    bool
	format      string
	output      string
	only        []string
	skip        []string
	timeout     time.Duration
	runTimeout  time.Duration
	concurrency int
	metricsFile string
	interactive bool

	// closers are run after the command finishes.
	closers []io.Closer
}

// NewRootCmd builds the full command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pre-release-check [PATH]",
		Short: "Validate a repository before it is released",
		Long: `pre-release-check runs a set of independent validators against a
repository (shell scripts, Ansible playbooks, Vagrant and Docker
configuration) and reports PASS, FAIL, WARN or SKIP for each of them.

The overall status is FAIL when any validator fails, or, with --strict,
when any validator warns. Validators that support it can repair problems
with --fix; every modified file is backed up first.

Exit codes: 0 pass, 1 fail, 2 invalid arguments or configuration,
3 report could not be written.`,
		Example: `  # Check the current directory
  pre-release-check

  # Strict check of another repository, written as JSON
  pre-release-check ../infra --strict --format json --output report.json

  # Run two validators in parallel
  pre-release-check --only security,config-syntax --parallel

  # Repair whitespace and permissions, then check
  pre-release-check --fix

  See Also: pre-release-check validators, pre-release-check backup`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return o.setupLogging(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			return runCheck(c, args, o)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			o.close()
		},
		Version:       cmd.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetVersionTemplate("pre-release-check version {{.Version}}\n")
	ibackup.Version = cmd.Version
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewUsageError(err, helpSuggestion)
	})

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&o.verbosity, "verbose", "v", "increase verbosity level (e.g., -v, -vv)")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "suppress non-error output")
	pf.StringVar(&o.logFormat, "log-format", "text", "log format: text, json")
	pf.StringVar(&o.logFile, "log-file", "", "write logs to file in JSON format")
	pf.StringVar(&o.color, "color", string(logging.ColorAuto), "colorize output: auto, always, never")

	f := rootCmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "config file (default: PATH/.pre-release-check.yaml)")
	f.BoolVar(&o.strict, "strict", false, "treat warnings as failures")
	f.BoolVar(&o.fix, "fix", false, "repair problems where a validator supports it")
	f.BoolVar(&o.parallel, "parallel", false, "run validators concurrently")
	f.StringVar(&o.format, "format", string(validator.FormatText), "report format: text, json")
	f.StringVarP(&o.output, "output", "o", "", "write the report to a file instead of stdout")
	f.StringSliceVar(&o.only, "only", nil, "run only these validators (comma-separated)")
	f.StringSliceVar(&o.skip, "skip", nil, "do not run these validators")
	f.DurationVar(&o.timeout, "timeout", validator.DefaultTimeout, "time limit per validator")
	f.DurationVar(&o.runTimeout, "run-timeout", 0, "time limit for the whole run (0 = none)")
	f.IntVar(&o.concurrency, "concurrency", 0, "maximum validators running at once with --parallel (default: CPU count)")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics of the run to a textfile")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "pick validators interactively")

	rootCmd.AddCommand(
		newValidatorsCmd(o),
		newVersionCmd(),
		backup.NewCmd(),
	)

	return rootCmd
}

// Execute runs the command tree and returns an error that carries the exit
// code (see errors.CodeOf).
func Execute() error {
	return execute(context.Background(), NewRootCmd())
}

func execute(ctx context.Context, rootCmd *cobra.Command) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	// Cobra reports unknown commands and bad arguments as plain errors.
	return errors.NewUsageError(err, helpSuggestion)
}

// PrintError writes err and its suggestion, if any, to w.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %v\n", red("Error:"), err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(c *cobra.Command, args []string) error {
		if err := fn(c, args); err != nil {
			return errors.NewUsageError(err, helpSuggestion)
		}
		return nil
	}
}

// setupLogging configures the default logger based on verbosity flags.
func (o *rootOptions) setupLogging(c *cobra.Command) error {
	if o.quiet && o.verbosity > 0 {
		return errors.NewUsageError(errors.New("cannot use --quiet and --verbose together"), helpSuggestion)
	}

	var level slog.Level
	if o.quiet {
		level = slog.LevelError
	} else {
		v := o.verbosity
		if v == 0 {
			if val, ok := os.LookupEnv("PRC_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	mode, err := logging.ParseColorMode(o.color)
	if err != nil {
		return errors.NewUsageError(err, helpSuggestion)
	}
	o.colorMode = mode
	color.NoColor = !mode.Enabled(c.OutOrStdout())

	format := logging.Format(o.logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUsageError(errors.Newf("invalid log format %q (valid: text, json)", o.logFormat), helpSuggestion)
	}
	primaryHandler := logging.NewHandlerFor(logging.Config{
		Level:  level,
		Format: format,
		Output: c.ErrOrStderr(),
		Color:  mode,
	})

	handlers := []slog.Handler{primaryHandler}

	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUsageError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		o.closers = append(o.closers, f)
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c.SetContext(logging.NewContext(ctx, logger))

	return nil
}

func (o *rootOptions) close() {
	for _, c := range o.closers {
		_ = c.Close()
	}
	o.closers = nil
}
