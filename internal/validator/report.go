package validator

import (
	"slices"
	"strings"
	"time"
)

// Report is the finalized outcome of a run.
type Report struct {
	// RunID identifies the run and its fix-mode backup.
	RunID string `json:"run_id"`

	// Target is the absolute path of the validated repository.
	Target string `json:"target"`

	// StartedAt is when the run started, in UTC.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall time of the whole run.
	Duration time.Duration `json:"duration_ns"`

	Strict   bool `json:"strict"`
	Fix      bool `json:"fix"`
	Parallel bool `json:"parallel"`

	// BackupID names the backup holding files changed in fix mode.
	BackupID string `json:"backup_id,omitempty"`

	// Results holds one entry per selected validator.
	Results []Result `json:"results"`

	// TotalErrors counts FAIL results.
	TotalErrors int `json:"total_errors"`

	// TotalWarnings counts WARN results.
	TotalWarnings int `json:"total_warnings"`

	// TotalSkipped counts SKIP results.
	TotalSkipped int `json:"total_skipped"`

	// TotalPassed counts PASS results.
	TotalPassed int `json:"total_passed"`

	// OverallStatus is FAIL when any result failed, or in strict mode when
	// any result warned. It is PASS otherwise.
	OverallStatus Status `json:"overall_status"`
}

// OverallStatus computes the run status from the result counts.
func OverallStatus(errorCount, warningCount int, strict bool) Status {
	if errorCount > 0 || (strict && warningCount > 0) {
		return StatusFail
	}
	return StatusPass
}

// Tally recomputes the counts and overall status from Results.
func (r *Report) Tally() {
	r.TotalErrors, r.TotalWarnings, r.TotalSkipped, r.TotalPassed = 0, 0, 0, 0
	for _, res := range r.Results {
		switch res.Status {
		case StatusFail:
			r.TotalErrors++
		case StatusWarn:
			r.TotalWarnings++
		case StatusSkip:
			r.TotalSkipped++
		case StatusPass:
			r.TotalPassed++
		}
	}
	r.OverallStatus = OverallStatus(r.TotalErrors, r.TotalWarnings, r.Strict)
}

// Failed returns true if the overall status is FAIL.
func (r *Report) Failed() bool {
	return r.OverallStatus == StatusFail
}

// SortByName orders results by validator name.
func (r *Report) SortByName() {
	slices.SortStableFunc(r.Results, func(a, b Result) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Result returns the result recorded for name.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

// Problems returns the FAIL and WARN results in report order.
func (r *Report) Problems() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFail || res.Status == StatusWarn {
			out = append(out, res)
		}
	}
	return out
}
