package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomwork/loomlint/internal/testutil"
	"github.com/loomwork/loomlint/internal/validator"
)

const cleanWorkflow = `from loom.workflow import WorkflowBuilder
from loom.runtime import LocalRuntime

builder = WorkflowBuilder()
builder.add_node("HTTPRequest", "fetch", {"url": "https://example.com"})
builder.add_node("LLMAgent", "summarize", {"model": "gpt-4", "prompt": "Summarize: {text}"})
builder.add_connection("fetch", "response", "summarize", "text")
workflow = builder.build()
runtime = LocalRuntime()
result = runtime.execute(workflow)
`

const brokenWorkflow = `from loom.workflow import WorkflowBuilder
builder = WorkflowBuilder()
builder.add_node("LLMAgent", "agent", {"temperature": 0.5})
builder.add_connection("agent", "result", "ghost", "data")
`

const invertedWorkflow = `from loom.workflow import WorkflowBuilder
from loom.runtime import LocalRuntime

builder = WorkflowBuilder()
runtime = LocalRuntime()
result = builder.execute(runtime)
`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Run(&out, &errOut, args)
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	return exitErr.Code
}

func writeWorkflow(t *testing.T, source string) string {
	t.Helper()
	dir := testutil.WriteTree(t, map[string]string{"workflow.py": source})
	return filepath.Join(dir, "workflow.py")
}

func TestValidateCommandClean(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "validate", writeWorkflow(t, cleanWorkflow))

	require.NoError(t, err)
	assert.Contains(t, out, "no problems found")
}

func TestValidateCommandFindings(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "validate", writeWorkflow(t, brokenWorkflow))

	assert.Equal(t, 1, exitCode(t, err))
	assert.Empty(t, err.Error(), "findings are already rendered, the exit error stays silent")
	assert.Contains(t, out, "PAR004")
	assert.Contains(t, out, "missing required parameter 'model'")
	assert.Contains(t, out, "problems (")
}

func TestValidateCommandJSON(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "validate", "--json", writeWorkflow(t, brokenWorkflow))
	assert.Equal(t, 1, exitCode(t, err))

	var res validator.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.HasErrors)
	assert.Len(t, res.Errors, 3, "two missing parameters plus the unknown target")
	assert.Empty(t, res.Warnings)
	assert.Len(t, res.Suggestions, 2)
}

func TestParamsCommandScoped(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "params", writeWorkflow(t, brokenWorkflow))

	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "PAR004")
	assert.NotContains(t, out, "CON004", "connection findings belong to other commands")
}

func TestGoldCommand(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "gold", writeWorkflow(t, invertedWorkflow))

	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "GOLD002")
	assert.Contains(t, out, "execution order is inverted")
}

func TestGoldCommandClean(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "gold", writeWorkflow(t, cleanWorkflow))

	require.NoError(t, err)
	assert.Contains(t, out, "no problems found")
}

func TestConnectionsCommand(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"wiring.yaml": `- source: a
  output: result
  target: b
  input: data
- source: b
  output: result
  target: a
  input: data
`,
	})

	out, _, err := runCLI(t, "connections", filepath.Join(dir, "wiring.yaml"))

	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "CON005")
	assert.Contains(t, out, "circular dependency: a -> b -> a")
}

func TestConnectionsCommandBadYAML(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"wiring.yaml": "- source: [a, b\n",
	})

	_, _, err := runCLI(t, "connections", filepath.Join(dir, "wiring.yaml"))

	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), "failed to parse connections file")
}

func TestPatternsCommand(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "patterns")

	require.NoError(t, err)
	assert.Contains(t, out, "inverted_execution")
	assert.Contains(t, out, "deprecated_connection")
	assert.Contains(t, out, "legacy_cycle_flag")
}

func TestPatternsCommandJSON(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "patterns", "--json")
	require.NoError(t, err)

	var patterns []validator.PatternInfo
	require.NoError(t, json.Unmarshal([]byte(out), &patterns))
	require.Len(t, patterns, 3)
	assert.Equal(t, "inverted_execution", patterns[0].Name)
}

func TestSuggestCommand(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "suggest", writeWorkflow(t, brokenWorkflow))

	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "PAR004:")
	assert.Contains(t, out, "fix:")
	assert.Contains(t, out, "example:")
}

func TestSuggestCommandClean(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "suggest", writeWorkflow(t, cleanWorkflow))

	require.NoError(t, err)
	assert.Contains(t, out, "no suggestions")
}

func TestScanCommandFindsPattern(t *testing.T) {
	t.Parallel()

	path := writeWorkflow(t, invertedWorkflow)
	out, _, err := runCLI(t, "scan", "--type", "inverted_execution", path)

	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "1 inverted_execution occurrence")
	assert.Contains(t, out, "workflow.py:6:")
	assert.Contains(t, out, "fix:")
}

func TestScanCommandAbsent(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "scan", "--type", "legacy_cycle_flag", writeWorkflow(t, cleanWorkflow))

	require.NoError(t, err)
	assert.Contains(t, out, "no legacy_cycle_flag occurrences found")
}

func TestScanCommandUnknownType(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "scan", "--type", "nonsense", writeWorkflow(t, cleanWorkflow))

	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), "unknown pattern type")
}

func TestScanCommandRequiresType(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "scan", writeWorkflow(t, cleanWorkflow))

	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), `"type" not set`)
}
