package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValidationPatterns(t *testing.T) {
	svc, _ := newService(t)

	patterns := svc.GetValidationPatterns()
	require.Len(t, patterns, 3)
	assert.Equal(t, "inverted_execution", patterns[0].Name)
	for _, p := range patterns {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description, "pattern %s", p.Name)
		assert.NotEmpty(t, p.CodeExample, "pattern %s", p.Name)
	}
}

func TestCheckErrorPatternUnknownType(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.CheckErrorPattern(ctx, "x = 1\n", "definitely_not_a_pattern")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pattern type "definitely_not_a_pattern"`)
	assert.Contains(t, err.Error(), "inverted_execution")
}

func TestCheckErrorPatternInvertedExecution(t *testing.T) {
	svc, ctx := newService(t)

	report, err := svc.CheckErrorPattern(ctx, src(
		`from loom.workflow import WorkflowBuilder`,
		`from loom.runtime import LocalRuntime`,
		``,
		`builder = WorkflowBuilder()`,
		`runtime = LocalRuntime()`,
		`builder.execute(runtime)`,
	), "inverted_execution")

	require.NoError(t, err)
	assert.True(t, report.HasPattern)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, 6, report.Matches[0].Line)
	assert.Contains(t, report.Matches[0].Pattern, "execution order is inverted")
	assert.NotEmpty(t, report.Matches[0].Suggestion)
}

func TestCheckErrorPatternDeprecatedConnection(t *testing.T) {
	svc, ctx := newService(t)

	report, err := svc.CheckErrorPattern(ctx, src(
		`builder.add_connection("reader", "writer")`,
	), "deprecated_connection")

	require.NoError(t, err)
	assert.True(t, report.HasPattern)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, 1, report.Matches[0].Line)
	assert.Contains(t, report.Matches[0].Pattern, "two-argument form")
}

func TestCheckErrorPatternAbsent(t *testing.T) {
	svc, ctx := newService(t)

	report, err := svc.CheckErrorPattern(ctx, src(
		`from loom.workflow import WorkflowBuilder`,
		``,
		`builder = WorkflowBuilder()`,
	), "inverted_execution")

	require.NoError(t, err)
	assert.False(t, report.HasPattern)
	assert.Empty(t, report.Matches)
}

func TestCheckErrorPatternParseFailure(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.CheckErrorPattern(ctx, "builder = (\n", "inverted_execution")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse source")
}
