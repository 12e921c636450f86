// Package cmd holds the build metadata of pre-release-check, injected via
// ldflags:
//
//	-X github.com/thoreinstein/prerelease/cmd.Version=v1.2.3
package cmd

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)

// Info returns the multi-line version banner printed by the version command.
func Info() string {
	return fmt.Sprintf("pre-release-check version %s\n  commit: %s\n  built:  %s\n", Version, Commit, Date)
}
