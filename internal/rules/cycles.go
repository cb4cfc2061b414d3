package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/ir"
)

// cyclesPass validates cycle definitions: termination condition present,
// convergence expression well-formed, edges present and resolvable,
// iteration and timeout values sane. It also flags the legacy
// cycle=True connection form.
type cyclesPass struct{}

func (cyclesPass) Name() string { return "cycles" }

func (cyclesPass) Check(_ context.Context, in *Input) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, line := range in.Unit.CycleFlagLines {
		d := diag.New(diag.CodeLegacyCycleFlag,
			"cycle=True on add_connection is the legacy cycle form; declare the loop with create_cycle() instead")
		d.Line = line
		out = append(out, d)
	}
	for _, cyc := range in.Unit.Cycles {
		out = append(out, checkCycle(in, cyc)...)
	}
	return out
}

func checkCycle(in *Input, cyc *ir.Cycle) []diag.Diagnostic {
	var out []diag.Diagnostic

	if !cyc.HasMaxIterations && !cyc.HasConvergeWhen {
		d := diag.Newf(diag.CodeUnboundedCycle,
			"cycle '%s' sets neither max_iterations nor converge_when and can loop forever", cyc.Name)
		d.Line = cyc.Line
		out = append(out, d)
	}

	// A non-literal converge_when expression cannot be grammar-checked.
	if cyc.HasConvergeWhen && cyc.ConvergeWhen != nil {
		if err := convergeExprError(*cyc.ConvergeWhen); err != nil {
			d := diag.Newf(diag.CodeBadConvergence,
				"cycle '%s' converge_when expression %q is invalid: %v", cyc.Name, *cyc.ConvergeWhen, err)
			d.Line = cyc.ConvergeLine
			out = append(out, d)
		}
	}

	if len(cyc.Edges) == 0 {
		d := diag.Newf(diag.CodeEmptyCycle, "cycle '%s' declares no edges", cyc.Name)
		d.Line = cyc.Line
		out = append(out, d)
	}

	for _, e := range cyc.Edges {
		if !e.MappingOK {
			d := diag.Newf(diag.CodeBadCycleMapping,
				"cycle '%s' edge %s -> %s has a mapping that is not a field-to-field dict literal",
				cyc.Name, e.Source, e.Target)
			d.Line = e.Line
			out = append(out, d)
		}
	}

	if cyc.HasMaxIterations && cyc.MaxIterations != nil && *cyc.MaxIterations > in.Cfg.MaxIterationsHighWater {
		d := diag.Newf(diag.CodeHighIterationLimit,
			"cycle '%s' max_iterations %d exceeds the recommended limit of %d",
			cyc.Name, *cyc.MaxIterations, in.Cfg.MaxIterationsHighWater)
		d.Line = cyc.MaxIterationsLine
		out = append(out, d)
	}

	if cyc.HasTimeout && (cyc.TimeoutNonNumeric || (cyc.TimeoutSeconds != nil && *cyc.TimeoutSeconds <= 0)) {
		d := diag.Newf(diag.CodeBadCycleTimeout,
			"cycle '%s' timeout must be a positive number of seconds", cyc.Name)
		d.Line = cyc.TimeoutLine
		out = append(out, d)
	}

	for _, e := range cyc.Edges {
		for _, endpoint := range []string{e.Source, e.Target} {
			if endpoint == "" || endpoint == ir.DynamicName || in.Graph.Has(endpoint) {
				continue
			}
			d := diag.Newf(diag.CodeUnknownCycleNode,
				"cycle '%s' references undeclared node '%s'", cyc.Name, endpoint)
			d.Line = e.Line
			d.NodeID = endpoint
			out = append(out, d)
		}
	}

	return out
}

// convergeExprError reports why a converge_when expression fails the
// lightweight grammar check, or nil when it passes. The check is
// token-level: balanced parentheses, string/number/identifier operands,
// and the boolean operators the runtime evaluates (== != < > <= >=,
// and/or/not). It is deliberately not a full expression parser.
func convergeExprError(expr string) error {
	s := strings.TrimSpace(expr)
	if s == "" {
		return fmt.Errorf("empty expression")
	}

	depth := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			depth++
			i++
		case c == ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced parentheses")
			}
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return fmt.Errorf("unterminated string literal")
			}
			i += end + 2
		case c >= '0' && c <= '9':
			for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
				i++
			}
		case isConvergeIdentByte(c):
			for i < len(s) && (isConvergeIdentByte(s[i]) || s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
				i++
			}
		case c == '=':
			if i+1 < len(s) && s[i+1] == '=' {
				i += 2
				break
			}
			return fmt.Errorf("'=' is assignment; use '==' to compare")
		case c == '!':
			if i+1 < len(s) && s[i+1] == '=' {
				i += 2
				break
			}
			return fmt.Errorf("unexpected '!'; use 'not'")
		case c == '<' || c == '>':
			i++
			if i < len(s) && s[i] == '=' {
				i++
			}
		case c == '&':
			return fmt.Errorf("'&&' is not valid; use 'and'")
		case c == '|':
			return fmt.Errorf("'||' is not valid; use 'or'")
		case c == ';':
			return fmt.Errorf("unexpected ';'")
		default:
			return fmt.Errorf("unexpected character %q", string(c))
		}
	}

	if depth != 0 {
		return fmt.Errorf("unbalanced parentheses")
	}
	return nil
}

func isConvergeIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
