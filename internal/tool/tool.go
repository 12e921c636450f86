// Package tool runs external programs used by validators (shellcheck,
// command availability checks) behind an interface that tests can replace.
package tool

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// ErrNotInstalled is returned when a program is not on PATH.
var ErrNotInstalled = errors.New("not installed")

// Result is the outcome of a finished program.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner looks up and runs programs.
type Runner interface {
	// LookPath returns the absolute path of name or an error wrapping
	// ErrNotInstalled.
	LookPath(name string) (string, error)

	// Run executes name in dir and waits for it. A non-zero exit status is
	// reported in Result.ExitCode, not as an error; errors mean the program
	// could not be started or was killed by ctx.
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// Exec runs programs with os/exec.
type Exec struct{}

// NewExec returns the os/exec backed Runner.
func NewExec() *Exec {
	return &Exec{}
}

// LookPath implements Runner.
func (Exec) LookPath(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "looking up %s", name), ErrNotInstalled)
	}
	return p, nil
}

// Run implements Runner.
func (Exec) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, errors.Wrapf(ctxErr, "running %s", name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return res, errors.Mark(errors.Wrapf(err, "running %s", name), ErrNotInstalled)
		}
		return res, errors.Wrapf(err, "running %s", name)
	}
	return res, nil
}
