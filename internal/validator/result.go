package validator

import (
	"slices"
	"time"
)

// Result is the outcome of running one validator once.
type Result struct {
	// Name is the validator that produced the result.
	Name string `json:"name"`

	// Category groups related validators (e.g. "security", "docs").
	Category string `json:"category,omitempty"`

	// Status is the outcome label.
	Status Status `json:"status"`

	// Messages are human-readable details, in the order they were found.
	Messages []string `json:"messages"`

	// Duration is the wall time the validator took.
	Duration time.Duration `json:"duration_ns"`
}

// NewResult creates a result with the given status and messages.
func NewResult(name, category string, status Status, messages ...string) *Result {
	return &Result{
		Name:     name,
		Category: category,
		Status:   status,
		Messages: messages,
	}
}

// Failed creates a FAIL result with a single message.
func Failed(name, category, message string) *Result {
	return NewResult(name, category, StatusFail, message)
}

// Skipped creates a SKIP result with a single message.
func Skipped(name, category, message string) *Result {
	return NewResult(name, category, StatusSkip, message)
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() Result {
	c := *r
	c.Messages = slices.Clone(r.Messages)
	return c
}

// AddMessage appends a message without changing the status.
func (r *Result) AddMessage(msg string) {
	r.Messages = append(r.Messages, msg)
}
