package validator

import (
	"fmt"
	"strings"
)

// Severity represents the impact of a single finding.
type Severity int

const (
	// SeverityError indicates a blocking problem.
	SeverityError Severity = iota
	// SeverityWarning indicates a recommended but non-blocking fix.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Issue is a single problem found by a validator.
type Issue struct {
	// Severity indicates the impact of the issue.
	Severity Severity
	// Location identifies where the issue is, usually "path" or "path:line".
	Location string
	// Message is a human-readable description of the problem.
	Message string
}

// String formats the issue as "severity: location: message".
func (i Issue) String() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Location != "" {
		sb.WriteString(i.Location)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	return sb.String()
}

// Findings accumulates issues while a validator runs.
type Findings struct {
	Issues []Issue
}

// AddError records a blocking issue.
func (f *Findings) AddError(location, format string, args ...any) {
	f.add(SeverityError, location, format, args)
}

// AddWarning records a non-blocking issue.
func (f *Findings) AddWarning(location, format string, args ...any) {
	f.add(SeverityWarning, location, format, args)
}

// AddInfo records a note that does not affect the status.
func (f *Findings) AddInfo(location, format string, args ...any) {
	f.add(SeverityInfo, location, format, args)
}

func (f *Findings) add(sev Severity, location, format string, args []any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	f.Issues = append(f.Issues, Issue{Severity: sev, Location: location, Message: msg})
}

// HasErrors returns true if any issue has SeverityError.
func (f *Findings) HasErrors() bool {
	return f.count(SeverityError) > 0
}

// HasWarnings returns true if any issue has SeverityWarning.
func (f *Findings) HasWarnings() bool {
	return f.count(SeverityWarning) > 0
}

func (f *Findings) count(sev Severity) int {
	n := 0
	for _, i := range f.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

// Status derives the result status: FAIL on any error, WARN on any warning,
// PASS otherwise.
func (f *Findings) Status() Status {
	switch {
	case f.HasErrors():
		return StatusFail
	case f.HasWarnings():
		return StatusWarn
	default:
		return StatusPass
	}
}

// Result converts the findings into a result. Errors are listed before
// warnings, warnings before notes; order within a severity is preserved.
func (f *Findings) Result(name, category string) *Result {
	r := NewResult(name, category, f.Status())
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		for _, i := range f.Issues {
			if i.Severity == sev {
				r.Messages = append(r.Messages, i.String())
			}
		}
	}
	return r
}
