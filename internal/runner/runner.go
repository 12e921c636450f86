package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/fslock"
	"github.com/thoreinstein/prerelease/internal/logging"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// errRunTimeout is the cancellation cause when Options.RunTimeout expires.
var errRunTimeout = errors.New("run timeout exceeded")

// Observer receives every result as it is recorded.
type Observer interface {
	ValidatorFinished(res validator.Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(res validator.Result)

// ValidatorFinished calls f.
func (f ObserverFunc) ValidatorFinished(res validator.Result) { f(res) }

// Runner executes validators from a registry.
type Runner struct {
	registry  *validator.Registry
	logger    *slog.Logger
	backups   *backup.Manager
	namespace string
	observers []Observer
	disabled  map[string]bool
	newRunID  func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Without it the logger is taken from the run
// context (see logging.FromContext).
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithBackups makes fix mode preserve modified files in a backup of m under
// namespace. Without it fixes are applied without a backup.
func WithBackups(m *backup.Manager, namespace string) Option {
	return func(r *Runner) {
		r.backups = m
		r.namespace = namespace
	}
}

// WithObserver adds an observer notified of every recorded result.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, o)
	}
}

// WithDisabled marks validators that are recorded as SKIP instead of run.
func WithDisabled(names ...string) Option {
	return func(r *Runner) {
		for _, n := range names {
			r.disabled[n] = true
		}
	}
}

// WithRunID overrides run ID generation.
func WithRunID(fn func() string) Option {
	return func(r *Runner) {
		r.newRunID = fn
	}
}

// New creates a Runner over registry.
func New(registry *validator.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		disabled: make(map[string]bool),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run holds the state of a single Run call.
type run struct {
	*Runner
	id        string
	target    *validator.Target
	opts      validator.Options
	logger    *slog.Logger
	collector *validator.Collector
	env       *fixEnv
}

// Run validates opts, executes the selected validators against target and
// returns the finalized report. Configuration problems are returned as
// usage errors before any validator runs; validator failures are reported in
// the returned report, not as an error.
func (r *Runner) Run(ctx context.Context, target *validator.Target, opts validator.Options) (*validator.Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.NewConfigError(errors.Wrap(err, "invalid run options"))
	}

	validators, err := r.registry.Resolve(opts.Selected)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}

	logger := r.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	state := &run{
		Runner:    r,
		id:        r.newRunID(),
		target:    target,
		opts:      opts,
		collector: validator.NewCollector(),
	}
	state.logger = logger.With("run_id", state.id)

	if opts.Fix {
		state.env = r.newFixEnv(state.id, target.Root)
	}

	// Walk the target before any fixer writes temporary files into it.
	if len(validators) > 0 {
		if _, err := target.Files(); err != nil {
			state.logger.Warn("listing target files", "error", err)
		}
	}

	startedAt := time.Now().UTC()
	state.logger.Info("starting run",
		"target", target.Root,
		"validators", len(validators),
		"parallel", opts.Parallel,
		"strict", opts.Strict,
		"fix", opts.Fix,
	)

	runCtx := ctx
	if opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeoutCause(ctx, opts.RunTimeout, errRunTimeout)
		defer cancel()
	}

	if opts.Parallel {
		err = state.parallel(runCtx, validators)
	} else {
		err = state.sequential(runCtx, validators)
	}
	if err != nil {
		return nil, err
	}

	report := state.collector.Finalize(validator.Meta{
		RunID:     state.id,
		Target:    target.Root,
		StartedAt: startedAt,
		Strict:    opts.Strict,
		Fix:       opts.Fix,
		Parallel:  opts.Parallel,
		BackupID:  state.env.BackupID(),
	})
	if opts.Parallel {
		report.SortByName()
	}

	state.logger.Info("run finished",
		"status", report.OverallStatus.String(),
		"errors", report.TotalErrors,
		"warnings", report.TotalWarnings,
		"skipped", report.TotalSkipped,
		"duration", report.Duration,
	)
	return report, nil
}

func (s *run) sequential(ctx context.Context, validators []validator.Validator) error {
	for _, v := range validators {
		if err := s.execute(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *run) parallel(ctx context.Context, validators []validator.Validator) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for _, v := range validators {
		g.Go(func() error {
			return s.execute(gctx, v)
		})
	}

	return g.Wait()
}

// execute produces and records the single result of v.
func (s *run) execute(ctx context.Context, v validator.Validator) error {
	name := v.Name()
	logger := s.logger.With("validator", name)

	var res *validator.Result
	start := time.Now()

	switch {
	case s.disabled[name]:
		res = validator.Skipped(name, v.Category(), "disabled in configuration")
	case ctx.Err() != nil:
		res = validator.Failed(name, v.Category(), cancelMessage(ctx))
	default:
		logger.Debug("validator started")
		res = s.invoke(ctx, v)
	}

	res.Name = name
	if res.Category == "" {
		res.Category = v.Category()
	}
	res.Duration = time.Since(start)

	logger.Log(ctx, levelFor(res.Status), "validator finished",
		"status", res.Status.String(),
		"messages", len(res.Messages),
		"duration", res.Duration,
	)

	if err := s.collector.Record(res); err != nil {
		return errors.Wrap(err, "recording result")
	}
	for _, o := range s.observers {
		o.ValidatorFinished(res.Clone())
	}
	return nil
}

// invoke runs v in its own goroutine bounded by the per-validator timeout.
// When the timeout or the run context fires first, the goroutine is left to
// finish on its own and its result is discarded.
func (s *run) invoke(ctx context.Context, v validator.Validator) *validator.Result {
	vctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	done := make(chan *validator.Result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Debug("validator panicked", "validator", v.Name(), "stack", string(debug.Stack()))
				done <- validator.Failed(v.Name(), v.Category(), fmt.Sprintf("panic: %v", p))
			}
		}()
		done <- s.check(vctx, v)
	}()

	var res *validator.Result
	select {
	case res = <-done:
	case <-vctx.Done():
	}

	// A result produced after the deadline reflects an aborted check.
	switch {
	case ctx.Err() != nil:
		return validator.Failed(v.Name(), v.Category(), cancelMessage(ctx))
	case vctx.Err() != nil:
		return validator.Failed(v.Name(), v.Category(), fmt.Sprintf("timed out after %s", s.opts.Timeout))
	case res == nil:
		return validator.Failed(v.Name(), v.Category(), "validator returned no result")
	default:
		return res
	}
}

// check applies fixes when enabled and then validates.
func (s *run) check(ctx context.Context, v validator.Validator) *validator.Result {
	if !s.opts.Fix {
		return v.Validate(ctx, s.target, s.opts)
	}

	fixer, ok := v.(validator.Fixer)
	if !ok {
		res := v.Validate(ctx, s.target, s.opts)
		if res != nil {
			res.AddMessage(validator.NotFixable)
		}
		return res
	}

	fixes, fixErr := fixer.Fix(ctx, s.target, s.env)
	res := v.Validate(ctx, s.target, s.opts)
	if res == nil {
		return nil
	}

	for _, f := range fixes {
		res.AddMessage(f.String())
		if f.Err != nil {
			res.Status = validator.StatusFail
		}
	}
	if fixErr != nil {
		res.AddMessage("fix failed: " + fixErr.Error())
		res.Status = validator.StatusFail
	}
	return res
}

func (r *Runner) newFixEnv(runID, root string) *fixEnv {
	env := &fixEnv{locks: fslock.New()}
	if r.backups != nil {
		env.session = r.backups.NewSession(r.namespace, root, runID)
	}
	return env
}

func cancelMessage(ctx context.Context) string {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = ctx.Err()
	}
	return "cancelled: " + cause.Error()
}

func levelFor(s validator.Status) slog.Level {
	switch s {
	case validator.StatusFail:
		return slog.LevelWarn
	case validator.StatusWarn:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
