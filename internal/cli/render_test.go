package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomwork/loomlint/internal/diag"
)

func TestSummaryLine(t *testing.T) {
	t.Parallel()

	mixed := []diag.Diagnostic{
		diag.New(diag.CodeMissingRequiredParameter, "m"),
		diag.New(diag.CodeSuspiciousOutput, "w"),
		diag.New(diag.CodeUnusedImport, "i"),
	}
	assert.Equal(t, "3 problems (1 error, 1 warning, 1 info)", summaryLine(mixed))

	single := []diag.Diagnostic{diag.New(diag.CodeCircularDependency, "c")}
	assert.Equal(t, "1 problem (1 error)", summaryLine(single))
}

func TestWriteDiagnosticWithoutLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writeDiagnostic(&buf, "wf.py", diag.New(diag.CodeMissingImport, "module 'loom' is used but never imported"))

	assert.Equal(t, "wf.py: error: IMP001: module 'loom' is used but never imported\n", buf.String())
}

func TestWriteDiagnosticWithLine(t *testing.T) {
	t.Parallel()

	d := diag.New(diag.CodeUnusedImport, "import 'json' is never used")
	d.Line = 2

	var buf bytes.Buffer
	writeDiagnostic(&buf, "wf.py", d)

	assert.Equal(t, "wf.py:2: info: IMP002: import 'json' is never used\n", buf.String())
}

func TestWriteIndented(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writeIndented(&buf, "a = 1\nb = 2\n", "  ")

	assert.Equal(t, "  a = 1\n  b = 2\n", buf.String())
}
