package rules

import (
	"testing"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionsPassWrongArity(t *testing.T) {
	diags := runPassOn(t, connectionsPass{},
		`builder.add_connection("agent", "result", "processor")`,
	)

	require.Equal(t, []string{diag.CodeBadConnectionArity}, codesOf(diags),
		"a wrong-count call is not recorded as an edge, so no endpoint checks fire")
	assert.Contains(t, diags[0].Message, "got 3")
	assert.Equal(t, 1, diags[0].Line)
}

func TestConnectionsPassDeprecatedTwoArg(t *testing.T) {
	diags := runPassOn(t, connectionsPass{},
		`builder.add_node("Logger", "reader")`,
		`builder.add_node("Logger", "writer")`,
		`builder.add_connection("reader", "writer")`,
	)

	require.Equal(t, []string{diag.CodeDeprecatedConnection}, codesOf(diags),
		"two-arg form is deprecated but its endpoints still resolve")
	assert.Equal(t, 3, diags[0].Line)
	assert.Contains(t, diags[0].Message, "'reader'")
	assert.Contains(t, diags[0].Message, "'writer'")
}

func TestConnectionsPassUnknownEndpoints(t *testing.T) {
	diags := runPassOn(t, connectionsPass{},
		`builder.add_node("Logger", "reader")`,
		`builder.add_connection("reader", "result", "ghost", "input")`,
		`builder.add_connection("phantom", "result", "reader", "input")`,
	)

	assert.Equal(t, []string{diag.CodeUnknownTargetNode, diag.CodeUnknownSourceNode}, codesOf(diags))
	assert.Equal(t, "ghost", diags[0].NodeID)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, "phantom", diags[1].NodeID)
}

func TestConnectionsPassCircularDependency(t *testing.T) {
	diags := runPassOn(t, connectionsPass{},
		`builder.add_node("Logger", "a")`,
		`builder.add_node("Logger", "b")`,
		`builder.add_node("Logger", "c")`,
		`builder.add_connection("a", "result", "b", "data")`,
		`builder.add_connection("b", "result", "c", "data")`,
		`builder.add_connection("c", "result", "a", "data")`,
	)

	require.Equal(t, []string{diag.CodeCircularDependency}, codesOf(diags),
		"one diagnostic per distinct cycle, not one per edge")
	assert.Equal(t, "circular dependency: a -> b -> c -> a", diags[0].Message)
}

func TestConnectionsPassSuspiciousFieldNames(t *testing.T) {
	diags := runPassOn(t, connectionsPass{},
		`builder.add_node("Logger", "a")`,
		`builder.add_node("Logger", "b")`,
		`builder.add_connection("a", "resul", "b", "embedding")`,
	)

	require.Equal(t, []string{diag.CodeSuspiciousOutput, diag.CodeSuspiciousInput}, codesOf(diags))
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "did you mean 'result'?")
	assert.NotContains(t, diags[1].Message, "did you mean", "no close match for 'embedding'")
}

func TestConnectionsPassCleanWiring(t *testing.T) {
	diags := runPassOn(t, connectionsPass{},
		`builder.add_node("Logger", "a")`,
		`builder.add_node("Logger", "b")`,
		`builder.add_connection("a", "result", "b", "data")`,
	)
	assert.Empty(t, diags)
}
