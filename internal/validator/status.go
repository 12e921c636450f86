package validator

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Status is the outcome label of a validator.
type Status int

const (
	// StatusPass means the validator found nothing to report.
	StatusPass Status = iota
	// StatusSkip means the validator had nothing to check or was disabled.
	StatusSkip
	// StatusWarn means the validator found non-blocking problems.
	StatusWarn
	// StatusFail means the validator found blocking problems or could not run.
	StatusFail
)

// String returns the upper-case label used in reports.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusSkip:
		return "SKIP"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus parses a status label, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS":
		return StatusPass, nil
	case "SKIP":
		return StatusSkip, nil
	case "WARN":
		return StatusWarn, nil
	case "FAIL":
		return StatusFail, nil
	default:
		return 0, errors.Newf("unknown status %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s < StatusPass || s > StatusFail {
		return nil, errors.Newf("invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
