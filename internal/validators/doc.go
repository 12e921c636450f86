// Package validators implements the built-in pre-release checks.
//
// Each validator is a function of the target's file contents. Subprocesses
// go through [tool.Runner] and git state through the git package so that
// every check can be tested against a temporary directory.
//
// [DefaultRegistry] registers all checks in their canonical order:
//
//	documentation, security, code-compliance, file-organization,
//	dependencies, nasa, dry, config-syntax, permissions, whitespace,
//	git-hygiene
//
// The permissions and whitespace validators implement [validator.Fixer].
package validators
