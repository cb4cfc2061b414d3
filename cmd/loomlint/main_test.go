package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomwork/loomlint/internal/testutil"
)

func TestRunCleanFile(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"workflow.py": "x = 1\n",
	})
	var out, errOut bytes.Buffer

	code := run(&out, &errOut, []string{"validate", filepath.Join(dir, "workflow.py")})

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "no problems found")
	assert.Empty(t, errOut.String())
}

func TestRunFindings(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"workflow.py": "from loom.workflow import WorkflowBuilder\n" +
			"builder = WorkflowBuilder()\n" +
			"builder.add_node(\"LLMAgent\", \"agent\", {\"temperature\": 0.5})\n",
	})
	var out, errOut bytes.Buffer

	code := run(&out, &errOut, []string{"validate", filepath.Join(dir, "workflow.py")})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "PAR004")
	// Findings are rendered to stdout; the exit error itself is silent.
	assert.Empty(t, errOut.String())
}

func TestRunHelp(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := run(&out, &errOut, []string{"--help"})

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRunUnknownFlag(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := run(&out, &errOut, []string{"validate", "--bogus", "workflow.py"})

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "unknown flag")
}

func TestRunMissingFile(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := run(&out, &errOut, []string{"validate", filepath.Join(t.TempDir(), "absent.py")})

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "failed to read workflow file")
}
