// Package runner executes a selection of validators against a target and
// collects exactly one result per validator into a report.
//
// Validators run sequentially in selection order, or concurrently with a
// bounded worker count. Each validator gets its own timeout; a validator that
// times out, panics or is cancelled by the run timeout is recorded as FAIL and
// the run continues.
package runner
