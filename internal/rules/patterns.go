package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/ir"
)

// Pattern is one table-driven anti-pattern matcher. Find returns every
// occurrence in a unit; the descriptive fields feed the static pattern
// reference exposed to callers.
type Pattern struct {
	Name        string
	Code        string
	Description string
	CodeExample string
	Find        func(u *ir.Unit) []PatternMatch
}

// PatternMatch is one occurrence of a pattern in a unit.
type PatternMatch struct {
	Line    int
	Message string
}

// patternTable is the shipping catalog. New patterns are new entries,
// not new code paths.
var patternTable = []Pattern{
	{
		Name:        "inverted_execution",
		Code:        diag.CodeInvertedExecution,
		Description: "The runtime is passed to the workflow's execute() instead of the workflow being handed to a runtime.",
		CodeExample: "runtime = LocalRuntime()\nresult = runtime.execute(workflow.build())",
		Find:        findInvertedExecution,
	},
	{
		Name:        "deprecated_connection",
		Code:        diag.CodeDeprecatedConnection,
		Description: "Two-argument add_connection relies on implicit field wiring, which the runtime no longer resolves.",
		CodeExample: `builder.add_connection("reader", "text", "summarizer", "text")`,
		Find:        findDeprecatedConnections,
	},
	{
		Name:        "legacy_cycle_flag",
		Code:        diag.CodeLegacyCycleFlag,
		Description: "cycle=True on add_connection predates cycle builders and skips every cycle safety check.",
		CodeExample: "cycle = builder.create_cycle(\"refine\")\ncycle.connect(\"critic\", \"writer\", mapping={\"notes\": \"notes\"})\ncycle.max_iterations(5)\ncycle.build()",
		Find:        findLegacyCycleFlags,
	},
}

// Patterns returns the pattern catalog in table order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patternTable))
	copy(out, patternTable)
	return out
}

// PatternByName looks up one catalog entry.
func PatternByName(name string) (Pattern, bool) {
	for _, p := range patternTable {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// PatternNames returns the catalog names in table order.
func PatternNames() []string {
	names := make([]string, len(patternTable))
	for i, p := range patternTable {
		names[i] = p.Name
	}
	return names
}

// patternsPass emits diagnostics for the GOLD-class table entries only;
// the other entries double shapes already reported by their own passes
// and exist for the pattern-scan operation.
type patternsPass struct{}

func (patternsPass) Name() string { return "patterns" }

func (patternsPass) Check(_ context.Context, in *Input) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, p := range patternTable {
		if !strings.HasPrefix(p.Code, "GOLD") {
			continue
		}
		for _, m := range p.Find(in.Unit) {
			d := diag.New(p.Code, m.Message)
			d.Line = m.Line
			out = append(out, d)
		}
	}
	return out
}

func findInvertedExecution(u *ir.Unit) []PatternMatch {
	var out []PatternMatch
	for _, call := range u.ExecCalls {
		if call.Method != "execute" {
			continue
		}
		receiver := call.Receiver
		if receiver == "" {
			receiver = "workflow"
		}
		var msg string
		switch call.ReceiverKind {
		case ir.KindBuilder:
			msg = fmt.Sprintf("execution order is inverted: call runtime.execute(%s.build()), not %s.execute(runtime)", receiver, receiver)
		case ir.KindWorkflow:
			msg = fmt.Sprintf("execution order is inverted: call runtime.execute(%s), not %s.execute(runtime)", receiver, receiver)
		default:
			continue
		}
		out = append(out, PatternMatch{Line: call.Line, Message: msg})
	}
	return out
}

func findDeprecatedConnections(u *ir.Unit) []PatternMatch {
	var out []PatternMatch
	for _, conn := range u.Connections {
		if !conn.TwoArg {
			continue
		}
		out = append(out, PatternMatch{
			Line:    conn.Line,
			Message: fmt.Sprintf("add_connection('%s', '%s') uses the deprecated two-argument form", conn.SourceNode, conn.TargetNode),
		})
	}
	return out
}

func findLegacyCycleFlags(u *ir.Unit) []PatternMatch {
	var out []PatternMatch
	for _, line := range u.CycleFlagLines {
		out = append(out, PatternMatch{
			Line:    line,
			Message: "add_connection(..., cycle=True) uses the legacy cycle flag",
		})
	}
	return out
}
