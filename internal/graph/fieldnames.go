package graph

import (
	"fmt"

	"github.com/agext/levenshtein"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/ir"
)

// hintDistance is the edit-distance ceiling for did-you-mean hints.
const hintDistance = 1

// FieldNameDiagnostics warns on output and input field names outside the
// curated common list. Field names are not statically typed, so an unusual
// name is only suspicious, never wrong; the findings are warnings. A name
// one edit away from a common name gets a did-you-mean hint. Two-argument
// connections carry no field names and are skipped.
func (g *Graph) FieldNameDiagnostics(common []string) []diag.Diagnostic {
	if len(common) == 0 {
		return nil
	}
	known := make(map[string]bool, len(common))
	for _, name := range common {
		known[name] = true
	}

	var out []diag.Diagnostic
	for _, c := range g.edges {
		if c.TwoArg {
			continue
		}
		if c.SourceOutput != ir.DynamicName && !known[c.SourceOutput] {
			out = append(out, fieldNameDiag(diag.CodeSuspiciousOutput, "output", c.SourceOutput, common, c.Line))
		}
		if c.TargetInput != ir.DynamicName && !known[c.TargetInput] {
			out = append(out, fieldNameDiag(diag.CodeSuspiciousInput, "input", c.TargetInput, common, c.Line))
		}
	}
	return out
}

func fieldNameDiag(code, side, name string, common []string, line int) diag.Diagnostic {
	msg := fmt.Sprintf("%s field '%s' is not a common field name", side, name)
	if hint := NearestName(name, common, hintDistance); hint != "" {
		msg += fmt.Sprintf("; did you mean '%s'?", hint)
	}
	d := diag.New(code, msg)
	d.Line = line
	return d
}

// NearestName returns the candidate within maxDist edits of name, choosing
// the closest and breaking ties lexically. It returns the empty string
// when nothing is close enough.
func NearestName(name string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1
	for _, cand := range candidates {
		if cand == name {
			continue
		}
		d := levenshtein.Distance(name, cand, nil)
		if d < bestDist || (d == bestDist && best != "" && cand < best) {
			best = cand
			bestDist = d
		}
	}
	return best
}
