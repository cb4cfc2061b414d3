package diag

import "sort"

// Sort orders diagnostics in place into the canonical report order: by line
// ascending with line-less diagnostics first, then by severity with errors
// before warnings before info, then by code lexically.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		return a.Code < b.Code
	})
}

// Merge combines diagnostic lists into one canonically ordered list,
// collapsing exact duplicates. The inputs are not modified.
func Merge(lists ...[]Diagnostic) []Diagnostic {
	var total int
	for _, list := range lists {
		total += len(list)
	}
	if total == 0 {
		return nil
	}

	merged := make([]Diagnostic, 0, total)
	for _, list := range lists {
		merged = append(merged, list...)
	}
	Sort(merged)

	out := merged[:1]
	for _, d := range merged[1:] {
		if d == out[len(out)-1] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// HasErrors reports whether any diagnostic carries error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Split partitions diagnostics into the two report arrays: errors on one
// side, warnings and informational findings on the other. Relative order is
// preserved.
func Split(diags []Diagnostic) (errors, warnings []Diagnostic) {
	for _, d := range diags {
		if d.Severity == SeverityError {
			errors = append(errors, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errors, warnings
}
