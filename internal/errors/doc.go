// Package errors provides error handling conventions for pre-release-check.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, exit code constants and
// re-exports of github.com/cockroachdb/errors for wrapping.
//
// # Exit Codes
//
//   - ExitSuccess (0): overall status PASS
//   - ExitFailure (1): overall status FAIL (a full report was produced)
//   - ExitUsage (2): invalid arguments or configuration, nothing ran
//   - ExitSystem (3): the report could not be written
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion:
//
//	err := prcerrors.NewUsageError(prcerrors.ErrUnknownValidator, "Run: pre-release-check validators")
//	os.Exit(prcerrors.CodeOf(err))
package errors
