// Package validator defines the contract between the pre-release orchestrator
// and the individual validators it runs.
//
// # Core Concepts
//
//   - [Validator]: a named, categorized check over a [Target] repository.
//   - [Fixer]: optional capability of a validator to repair what it reports.
//   - [Result]: the single outcome of one validator in one run.
//   - [Collector]: thread-safe, single-shot store of results for a run.
//   - [Report]: the finalized run with counts and the overall [Status].
//
// Validators accumulate problems in [Findings] and convert them into a result:
//
//	var f validator.Findings
//	if !exists {
//		f.AddError("README.md", "required document is missing")
//	}
//	return f.Result(v.Name(), v.Category())
package validator
