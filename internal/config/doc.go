// Package config loads the pre-release-check configuration file.
//
// # Configuration File
//
// The file is searched in this order:
//
//  1. the path given with --config
//  2. .pre-release-check.yaml in the target repository
//  3. config.yaml in the per-user config directory
//     ($XDG_CONFIG_HOME/pre-release-check, overridable with PRC_CONFIG_DIR)
//
// Without a file, defaults apply. Every key can be overridden through a
// PRC_-prefixed environment variable; nested keys use underscores
// (PRC_NASA_MAX_FUNCTION_LINES=80).
//
//	version: 1
//	validators: [documentation, security, code-compliance]
//	disabled: [dry]
//	exclude: [vendor/, "*.min.js"]
//	timeout: 300s
//	run_timeout: 15m
//	concurrency: 4
//	format: json
//	output: reports/pre-release.json
//	documentation:
//	  required: [README.md]
//	  recommended: [CHANGELOG.md, LICENSE]
//	nasa:
//	  max_function_lines: 60
//
// # Validation
//
// [Load] validates struct constraints with go-playground/validator. Checks
// that need the validator registry are done with [Validate]:
//
//	if err := config.Validate(cfg, registry.Names()); err != nil {
//	    return errors.NewConfigError(err)
//	}
package config
