package validator

import (
	"runtime"
	"time"

	"github.com/thoreinstein/prerelease/internal/validation"
)

// Format specifies the output format of a report.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// DefaultTimeout is the per-validator time limit.
const DefaultTimeout = 300 * time.Second

// Options configures a single run. It is built once before the run starts
// and never modified while validators execute.
type Options struct {
	// Strict promotes warnings to a failing overall status.
	Strict bool `json:"strict"`

	// Fix lets validators that support it repair problems before checking.
	Fix bool `json:"fix"`

	// Parallel runs validators concurrently.
	Parallel bool `json:"parallel"`

	// Format of the report file.
	Format Format `json:"format" validate:"report_format"`

	// OutputPath is where the report is written. Empty means no file.
	OutputPath string `json:"output,omitempty"`

	// Selected lists the validators to run, in order.
	Selected []string `json:"validators" validate:"unique,dive,validator_name"`

	// Timeout bounds each validator.
	Timeout time.Duration `json:"timeout" validate:"gt=0"`

	// RunTimeout bounds the whole run. Zero means no limit.
	RunTimeout time.Duration `json:"run_timeout" validate:"gte=0"`

	// Concurrency caps the number of validators running at once in
	// parallel mode.
	Concurrency int `json:"concurrency" validate:"gte=1"`
}

// DefaultOptions returns options with the documented defaults and no
// selection.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Timeout:     DefaultTimeout,
		Concurrency: runtime.NumCPU(),
	}
}

// Validate checks option values before a run starts.
func (o Options) Validate() error {
	return validation.Default().Struct(o)
}
