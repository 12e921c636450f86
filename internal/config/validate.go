package config

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/validation"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidPattern indicates a regular expression does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// Validate checks a Config for validity. When known is non-nil, names in
// validators and disabled must be among them. All problems are joined into
// the returned error.
func Validate(cfg *Config, known []string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var errs []error

	if err := validation.Default().Struct(cfg); err != nil {
		errs = append(errs, err)
	}

	if err := validatePath(cfg.Output); err != nil {
		errs = append(errs, &PathError{Field: "output", Path: cfg.Output, Err: err})
	}

	for _, p := range cfg.Security.Allow {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, errors.Wrapf(ErrInvalidPattern, "security.allow %q: %v", p, err))
		}
	}

	if known != nil {
		for _, field := range []struct {
			name  string
			names []string
		}{
			{"validators", cfg.Validators},
			{"disabled", cfg.Disabled},
		} {
			for _, n := range field.names {
				if !slices.Contains(known, n) {
					errs = append(errs, errors.Wrapf(errors.ErrUnknownValidator, "%s: %s (available: %s)",
						field.name, n, strings.Join(known, ", ")))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "no file")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "." || strings.HasSuffix(path, string(filepath.Separator)) {
		return ErrInvalidPath
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
