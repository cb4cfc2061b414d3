package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/graph"
	"github.com/loomwork/loomlint/internal/ir"
	"github.com/loomwork/loomlint/internal/pysrc"
	"github.com/loomwork/loomlint/internal/registry"
	"github.com/loomwork/loomlint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inputFor(t *testing.T, lines ...string) *Input {
	t.Helper()
	mod, err := pysrc.Parse(strings.Join(lines, "\n") + "\n")
	require.NoError(t, err)
	unit := ir.Extract(mod)
	return &Input{
		Unit:  unit,
		Graph: graph.Build(unit),
		Sigs:  registry.Builtins(),
		Cfg:   DefaultConfig(),
	}
}

func runPassOn(t *testing.T, p Pass, lines ...string) []diag.Diagnostic {
	t.Helper()
	return p.Check(context.Background(), inputFor(t, lines...))
}

func codesOf(diags []diag.Diagnostic) []string {
	codes := make([]string, len(diags))
	for i, d := range diags {
		codes[i] = d.Code
	}
	return codes
}

func withCode(diags []diag.Diagnostic, code string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

type panicPass struct{}

func (panicPass) Name() string { return "explosive" }

func (panicPass) Check(context.Context, *Input) []diag.Diagnostic {
	panic("kaboom")
}

type staticPass struct {
	diags []diag.Diagnostic
}

func (staticPass) Name() string { return "static" }

func (p staticPass) Check(context.Context, *Input) []diag.Diagnostic {
	return p.diags
}

func TestAllPassNames(t *testing.T) {
	var names []string
	for _, p := range All() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"parameters", "connections", "cycles", "imports", "patterns"}, names)
}

func TestRunIsolatesPanic(t *testing.T) {
	ctx, logs := testutil.Context(t)
	marker := diag.New(diag.CodeEmptyCycle, "marker")

	out := Run(ctx, inputFor(t, `x = 1`), []Pass{panicPass{}, staticPass{diags: []diag.Diagnostic{marker}}})

	require.Len(t, out, 2, "the pass after the panic must still contribute")
	assert.Equal(t, diag.CodeInternalFault, out[0].Code)
	assert.Equal(t, diag.SeverityError, out[0].Severity)
	assert.Contains(t, out[0].Message, "explosive")
	assert.Contains(t, out[0].Message, "kaboom")
	assert.Equal(t, marker, out[1])
	assert.Contains(t, logs.String(), "validator pass panicked")
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, _ := testutil.Context(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	out := Run(ctx, inputFor(t, `x = 1`), All())
	assert.Empty(t, out)
}

func TestRunCleanSource(t *testing.T) {
	ctx, _ := testutil.Context(t)
	in := inputFor(t,
		`from loom.workflow import WorkflowBuilder`,
		`from loom.runtime import LocalRuntime`,
		``,
		`builder = WorkflowBuilder()`,
		`builder.add_node("LLMAgent", "agent", {"model": "gpt-4", "prompt": "Summarize {text}"})`,
		`builder.add_node("Logger", "log")`,
		`builder.add_connection("agent", "result", "log", "text")`,
		`runtime = LocalRuntime()`,
		`result = runtime.execute(builder.build())`,
	)

	out := Run(ctx, in, All())
	assert.Empty(t, out, "well-formed source must validate clean, got %v", codesOf(out))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1000, cfg.MaxIterationsHighWater)
	assert.Contains(t, cfg.CommonFieldNames, "result")
	assert.Contains(t, cfg.HeavyModules, "numpy")
}
