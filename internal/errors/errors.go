package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for the pre-release-check binary.
const (
	// ExitSuccess indicates every selected validator passed.
	ExitSuccess = 0

	// ExitFailure indicates the run completed and the overall status is FAIL.
	ExitFailure = 1

	// ExitUsage indicates invalid arguments or configuration. No validator ran.
	ExitUsage = 2

	// ExitSystem indicates a system failure after validation, such as a report
	// that could not be written.
	ExitSystem = 3
)

// Sentinels that callers match with Is.
var (
	// ErrInvalidConfig marks configuration and option problems.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrUnknownValidator marks a selection naming an unregistered validator.
	ErrUnknownValidator = crdb.New("unknown validator")

	// ErrValidationFailed marks a run whose overall status is FAIL.
	ErrValidationFailed = crdb.New("validation failed")

	// ErrReportWrite marks a report that could not be written.
	ErrReportWrite = crdb.New("report not written")

	// ErrNotFound marks a missing backup, file or directory.
	ErrNotFound = crdb.New("resource not found")
)

// configSuggestion accompanies every configuration error.
const configSuggestion = "Check .pre-release-check.yaml or run: pre-release-check validators"

// ExitError carries the process exit code for err, and optionally a hint
// printed below the message.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

// NewExitError returns an ExitError with code and no suggestion. err may be
// nil.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUsageError reports invalid arguments (exit 2).
func NewUsageError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUsage, Suggestion: suggestion}
}

// NewSystemError reports an environment failure after validation (exit 3).
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// NewConfigError marks err with ErrInvalidConfig and reports it as a usage
// error.
func NewConfigError(err error) *ExitError {
	return NewUsageError(Mark(err, ErrInvalidConfig), configSuggestion)
}

// NewFailureError reports an overall FAIL status (exit 1).
func NewFailureError(errorCount, warningCount int) *ExitError {
	err := Wrapf(ErrValidationFailed, "%d error(s), %d warning(s)", errorCount, warningCount)
	return NewExitError(err, ExitFailure)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// CodeOf returns the exit code carried by err. Errors without an ExitError in
// their chain map to ExitFailure; a nil error maps to ExitSuccess.
func CodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
