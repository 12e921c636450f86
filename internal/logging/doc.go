// Package logging provides structured logging for pre-release-check on top
// of [log/slog].
//
// Terminal output goes through [Handler], a compact text handler that
// colorizes levels when the writer is a terminal and masks secret-looking
// attribute values. JSON output uses the standard library handler. A
// [MultiHandler] combines both when --log-file is given.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//		Color:  logging.ColorAuto,
//	})
//
// The logger of a run travels in its context:
//
//	ctx = logging.NewContext(ctx, logger)
//	logging.FromContext(ctx).Info("starting run")
//
// Tests use [ForTest] so log lines land in the test output.
package logging
