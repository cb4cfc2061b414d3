package validator

import (
	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/suggest"
)

// Result is the wire-shaped outcome of one validation request. Errors
// holds the error-severity findings; Warnings holds warning and info
// findings together, distinguished by their severity field.
type Result struct {
	HasErrors   bool                 `json:"has_errors"`
	Errors      []diag.Diagnostic    `json:"errors"`
	Warnings    []diag.Diagnostic    `json:"warnings"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// Diagnostics returns the errors and warnings re-merged into one
// canonically ordered list.
func (r Result) Diagnostics() []diag.Diagnostic {
	return diag.Merge(r.Errors, r.Warnings)
}

// buildResult assembles the response from raw pass output: canonical
// order, exact duplicates collapsed, one suggestion per distinct code.
// The arrays are never nil, so JSON renders [] rather than null.
func buildResult(diags []diag.Diagnostic) Result {
	merged := diag.Merge(diags)
	errors, warnings := diag.Split(merged)
	if errors == nil {
		errors = []diag.Diagnostic{}
	}
	if warnings == nil {
		warnings = []diag.Diagnostic{}
	}
	suggestions := suggest.SuggestFixes(merged)
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	return Result{
		HasErrors:   diag.HasErrors(merged),
		Errors:      errors,
		Warnings:    warnings,
		Suggestions: suggestions,
	}
}
