package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/loomwork/loomlint/internal/ir"
	"github.com/loomwork/loomlint/internal/pysrc"
	"github.com/loomwork/loomlint/internal/rules"
	"github.com/loomwork/loomlint/internal/suggest"
)

// PatternInfo is one catalog entry as exposed to callers.
type PatternInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CodeExample string `json:"code_example"`
}

// GetValidationPatterns lists the anti-pattern catalog.
func (s *Service) GetValidationPatterns() []PatternInfo {
	patterns := rules.Patterns()
	out := make([]PatternInfo, len(patterns))
	for i, p := range patterns {
		out[i] = PatternInfo{
			Name:        p.Name,
			Description: p.Description,
			CodeExample: p.CodeExample,
		}
	}
	return out
}

// PatternReport is the outcome of scanning one source for one pattern.
type PatternReport struct {
	HasPattern bool           `json:"has_pattern"`
	Matches    []PatternMatch `json:"matches"`
}

// PatternMatch is one occurrence located by CheckErrorPattern.
type PatternMatch struct {
	Line       int    `json:"line"`
	Pattern    string `json:"pattern"`
	Suggestion string `json:"suggestion"`
}

// CheckErrorPattern scans source for one named pattern from the catalog.
// An unknown pattern name or unparseable source is a caller error, not a
// finding.
func (s *Service) CheckErrorPattern(ctx context.Context, source, patternType string) (PatternReport, error) {
	p, ok := rules.PatternByName(patternType)
	if !ok {
		return PatternReport{}, fmt.Errorf("unknown pattern type %q; known types: %s",
			patternType, strings.Join(rules.PatternNames(), ", "))
	}

	if err := ctx.Err(); err != nil {
		return PatternReport{}, err
	}

	mod, err := pysrc.Parse(source)
	if err != nil {
		return PatternReport{}, fmt.Errorf("failed to parse source: %w", err)
	}

	fix := ""
	if sug, ok := suggest.For(p.Code); ok {
		fix = sug.Fix
	}

	report := PatternReport{Matches: []PatternMatch{}}
	for _, m := range p.Find(ir.Extract(mod)) {
		report.Matches = append(report.Matches, PatternMatch{
			Line:       m.Line,
			Pattern:    m.Message,
			Suggestion: fix,
		})
	}
	report.HasPattern = len(report.Matches) > 0
	return report, nil
}
