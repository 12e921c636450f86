package validator

import (
	"context"
	"fmt"
)

// Validator is the interface every pre-release check implements.
//
// Validate must not panic and must honor ctx cancellation where it does
// blocking work. Internal errors are reported as a FAIL result rather than
// returned.
type Validator interface {
	// Name returns the unique identifier used for selection.
	Name() string

	// Category returns the grouping for this validator (e.g. "security").
	Category() string

	// Validate checks target and returns exactly one result.
	Validate(ctx context.Context, target *Target, opts Options) *Result
}

// Fixer is implemented by validators that can repair what they report.
// Fix runs before Validate when fix mode is enabled.
type Fixer interface {
	Fix(ctx context.Context, target *Target, env FixEnv) ([]FixResult, error)
}

// FixEnv gives a fixer serialized, recoverable access to files.
type FixEnv interface {
	// Lock acquires the exclusive lock for an absolute file path.
	Lock(path string) (unlock func())

	// Preserve copies the file into the run's backup before its first
	// modification. Later calls for the same path are no-ops.
	Preserve(path string) error
}

// FixResult describes the outcome of one attempted repair.
type FixResult struct {
	// Path is the file that was repaired, relative to the target root.
	Path string `json:"path"`

	// Fixed is true when the file was changed.
	Fixed bool `json:"fixed"`

	// Description summarizes the change.
	Description string `json:"description"`

	// Err is set when the repair failed.
	Err error `json:"-"`
}

// String formats the fix as a result message.
func (f FixResult) String() string {
	if f.Err != nil {
		return fmt.Sprintf("fix failed: %s: %v", f.Path, f.Err)
	}
	return fmt.Sprintf("fixed: %s: %s", f.Path, f.Description)
}

// NotFixable is the message added to results of validators without fix
// support when fix mode is on.
const NotFixable = "fix not supported for this validator"

// CanFix reports whether v implements Fixer.
func CanFix(v Validator) bool {
	_, ok := v.(Fixer)
	return ok
}
