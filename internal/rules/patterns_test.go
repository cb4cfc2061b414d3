package rules

import (
	"testing"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternsPassInvertedExecutionOnBuilder(t *testing.T) {
	diags := runPassOn(t, patternsPass{},
		`from loom.workflow import WorkflowBuilder`,
		`from loom.runtime import LocalRuntime`,
		``,
		`builder = WorkflowBuilder()`,
		`runtime = LocalRuntime()`,
		`builder.execute(runtime)`,
	)

	require.Equal(t, []string{diag.CodeInvertedExecution}, codesOf(diags))
	assert.Equal(t, diag.SeverityError, diags[0].Severity)
	assert.Equal(t, 6, diags[0].Line)
	assert.Equal(t,
		"execution order is inverted: call runtime.execute(builder.build()), not builder.execute(runtime)",
		diags[0].Message)
}

func TestPatternsPassInvertedExecutionOnBuiltWorkflow(t *testing.T) {
	diags := runPassOn(t, patternsPass{},
		`from loom.workflow import WorkflowBuilder`,
		`from loom.runtime import LocalRuntime`,
		``,
		`builder = WorkflowBuilder()`,
		`wf = builder.build()`,
		`runtime = LocalRuntime()`,
		`wf.execute(runtime)`,
	)

	require.Equal(t, []string{diag.CodeInvertedExecution}, codesOf(diags))
	assert.Equal(t, 7, diags[0].Line)
	assert.Equal(t,
		"execution order is inverted: call runtime.execute(wf), not wf.execute(runtime)",
		diags[0].Message)
}

func TestPatternsPassCorrectExecutionOrder(t *testing.T) {
	diags := runPassOn(t, patternsPass{},
		`from loom.workflow import WorkflowBuilder`,
		`from loom.runtime import LocalRuntime`,
		``,
		`builder = WorkflowBuilder()`,
		`runtime = LocalRuntime()`,
		`result = runtime.execute(builder.build())`,
	)
	assert.Empty(t, diags)
}

func TestPatternsPassUntracedReceiverSkipped(t *testing.T) {
	diags := runPassOn(t, patternsPass{},
		`thing.execute(runtime)`,
	)
	assert.Empty(t, diags, "execute on a receiver of unknown kind proves nothing")
}

func TestPatternsPassEmitsGoldEntriesOnly(t *testing.T) {
	diags := runPassOn(t, patternsPass{},
		`builder.add_node("Logger", "a")`,
		`builder.add_node("Logger", "b")`,
		`builder.add_connection("a", "b")`,
		`builder.add_connection("a", "result", "b", "data", cycle=True)`,
	)
	assert.Empty(t, diags,
		"connection and cycle shapes are reported by their own passes, not duplicated here")
}

func TestPatternCatalog(t *testing.T) {
	patterns := Patterns()
	require.Len(t, patterns, 3)
	assert.Equal(t, []string{"inverted_execution", "deprecated_connection", "legacy_cycle_flag"}, PatternNames())
	for _, p := range patterns {
		assert.NotEmpty(t, p.Code, "pattern %s", p.Name)
		assert.NotEmpty(t, p.Description, "pattern %s", p.Name)
		assert.NotEmpty(t, p.CodeExample, "pattern %s", p.Name)
		assert.NotNil(t, p.Find, "pattern %s", p.Name)
	}

	dep, ok := PatternByName("deprecated_connection")
	require.True(t, ok)
	assert.Equal(t, diag.CodeDeprecatedConnection, dep.Code)

	_, ok = PatternByName("unknown_pattern")
	assert.False(t, ok)
}

func TestPatternFindersLocateNonGoldShapes(t *testing.T) {
	in := inputFor(t,
		`builder.add_node("Logger", "a")`,
		`builder.add_node("Logger", "b")`,
		`builder.add_connection("a", "b")`,
		`builder.add_connection("a", "result", "b", "data", cycle=True)`,
	)

	dep, ok := PatternByName("deprecated_connection")
	require.True(t, ok)
	matches := dep.Find(in.Unit)
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].Line)
	assert.Equal(t, "add_connection('a', 'b') uses the deprecated two-argument form", matches[0].Message)

	legacy, ok := PatternByName("legacy_cycle_flag")
	require.True(t, ok)
	matches = legacy.Find(in.Unit)
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].Line)
}
