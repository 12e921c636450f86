// Package main is the entry point for the pre-release-check CLI.
package main

import (
	"os"

	"github.com/thoreinstein/prerelease/cmd/pre-release-check/commands"
	"github.com/thoreinstein/prerelease/internal/errors"
)

func main() {
	err := commands.Execute()
	if err != nil && !errors.Is(err, errors.ErrValidationFailed) {
		commands.PrintError(os.Stderr, err)
	}
	os.Exit(errors.CodeOf(err))
}
