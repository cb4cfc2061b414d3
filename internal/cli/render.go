package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/suggest"
	"github.com/loomwork/loomlint/internal/validator"
)

// renderResult prints a validation result, either as the wire JSON or as
// compiler-style text lines followed by a summary.
func renderResult(w io.Writer, path string, res validator.Result, asJSON bool) error {
	if asJSON {
		return writeJSON(w, res)
	}
	diags := res.Diagnostics()
	if len(diags) == 0 {
		fmt.Fprintf(w, "%s: no problems found\n", path)
		return nil
	}
	for _, d := range diags {
		writeDiagnostic(w, path, d)
	}
	fmt.Fprintf(w, "\n%s\n", summaryLine(diags))
	return nil
}

func writeDiagnostic(w io.Writer, path string, d diag.Diagnostic) {
	if d.Line > 0 {
		fmt.Fprintf(w, "%s:%d: %s: %s: %s\n", path, d.Line, d.Severity, d.Code, d.Message)
		return
	}
	fmt.Fprintf(w, "%s: %s: %s: %s\n", path, d.Severity, d.Code, d.Message)
}

func summaryLine(diags []diag.Diagnostic) string {
	var errs, warns, infos int
	for _, d := range diags {
		switch d.Severity {
		case diag.SeverityError:
			errs++
		case diag.SeverityWarning:
			warns++
		default:
			infos++
		}
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, countNoun(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, countNoun(warns, "warning"))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", infos))
	}
	return fmt.Sprintf("%s (%s)", countNoun(len(diags), "problem"), strings.Join(parts, ", "))
}

// renderSuggestions prints remediation cards, one per distinct code.
func renderSuggestions(w io.Writer, suggestions []suggest.Suggestion, asJSON bool) error {
	if asJSON {
		return writeJSON(w, suggestions)
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "no suggestions; the workflow passed every check")
		return nil
	}
	for i, s := range suggestions {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s\n", s.ErrorCode, s.Description)
		fmt.Fprintf(w, "  fix: %s\n", s.Fix)
		if s.CodeExample != "" {
			fmt.Fprintln(w, "  example:")
			writeIndented(w, s.CodeExample, "    ")
		}
		fmt.Fprintf(w, "  note: %s\n", s.Explanation)
	}
	return nil
}

// renderPatterns prints the static gold-standard pattern reference.
func renderPatterns(w io.Writer, patterns []validator.PatternInfo, asJSON bool) error {
	if asJSON {
		return writeJSON(w, patterns)
	}
	for i, p := range patterns {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, p.Name)
		fmt.Fprintf(w, "  %s\n", p.Description)
		fmt.Fprintln(w, "  example:")
		writeIndented(w, p.CodeExample, "    ")
	}
	return nil
}

// renderPatternReport prints the occurrences of one pattern family.
func renderPatternReport(w io.Writer, path, patternType string, report validator.PatternReport, asJSON bool) error {
	if asJSON {
		return writeJSON(w, report)
	}
	if !report.HasPattern {
		fmt.Fprintf(w, "%s: no %s occurrences found\n", path, patternType)
		return nil
	}
	fmt.Fprintf(w, "%s: %s\n", path, countNoun(len(report.Matches), patternType+" occurrence"))
	for _, m := range report.Matches {
		fmt.Fprintf(w, "%s:%d: %s\n", path, m.Line, m.Pattern)
		fmt.Fprintf(w, "  fix: %s\n", m.Suggestion)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeIndented(w io.Writer, text, prefix string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s\n", prefix, line)
	}
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
