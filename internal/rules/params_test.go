package rules

import (
	"testing"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsPassMissingGetParameters(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`from loom.nodes.base import Node, register_node`,
		``,
		`@register_node`,
		`class Mangler(Node):`,
		`    def run(self, **kwargs):`,
		`        return kwargs`,
	)

	require.Equal(t, []string{diag.CodeNoParameterMethod}, codesOf(diags))
	assert.Equal(t, "Mangler", diags[0].NodeType)
	assert.Equal(t, 4, diags[0].Line)
}

func TestParamsPassUndeclaredKeyword(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`from loom.nodes.base import Node, NodeParameter`,
		``,
		`class Summarizer(Node):`,
		`    def get_parameters(self):`,
		`        return [`,
		`            NodeParameter(name="text", type="string"),`,
		`            NodeParameter(name="max_words", type="int"),`,
		`        ]`,
		``,
		`    def run(self, **kwargs):`,
		`        words = kwargs.get("max_word")`,
		`        raw = kwargs["payload"]`,
		`        again = kwargs.get("payload")`,
		`        return raw[:words]`,
	)

	require.Equal(t,
		[]string{diag.CodeUndeclaredParameter, diag.CodeUndeclaredParameter},
		codesOf(diags), "one report per distinct keyword")

	assert.Equal(t, "max_word", diags[0].Parameter)
	assert.Contains(t, diags[0].Message, "did you mean 'max_words'?")
	assert.Equal(t, 11, diags[0].Line)

	assert.Equal(t, "payload", diags[1].Parameter)
	assert.NotContains(t, diags[1].Message, "did you mean")
	assert.Equal(t, 12, diags[1].Line, "reported at the first read")
}

func TestParamsPassUntypedParameter(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`from loom.nodes.base import Node, NodeParameter`,
		``,
		`class Router(Node):`,
		`    def get_parameters(self):`,
		`        return [NodeParameter(name="mode")]`,
		``,
		`    def run(self, **kwargs):`,
		`        return kwargs.get("mode")`,
	)

	require.Equal(t, []string{diag.CodeUntypedParameter}, codesOf(diags))
	assert.Equal(t, "mode", diags[0].Parameter)
	assert.Equal(t, "Router", diags[0].NodeType)
	assert.Equal(t, 5, diags[0].Line)
}

func TestParamsPassMissingRequiredConfig(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`builder.add_node("LLMAgent", "agent", {"temperature": 0.5})`,
	)

	require.Equal(t,
		[]string{diag.CodeMissingRequiredParameter, diag.CodeMissingRequiredParameter},
		codesOf(diags), "one diagnostic per missing required parameter")

	assert.Equal(t, "model", diags[0].Parameter)
	assert.Equal(t, "agent", diags[0].NodeID)
	assert.Equal(t, "LLMAgent", diags[0].NodeType)
	assert.Equal(t, 1, diags[0].Line)
	assert.Contains(t, diags[0].Message, "(string)")

	assert.Equal(t, "prompt", diags[1].Parameter)
}

func TestParamsPassRequiredConfigTypoHint(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`builder.add_node("LLMAgent", "agent", {"modle": "gpt-4", "prompt": "hi"})`,
	)

	require.Equal(t, []string{diag.CodeMissingRequiredParameter}, codesOf(diags))
	assert.Equal(t, "model", diags[0].Parameter)
	assert.Contains(t, diags[0].Message, "config key 'modle' looks like a typo")
}

func TestParamsPassSatisfiedConfig(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`builder.add_node("LLMAgent", "agent", {"model": "gpt-4", "prompt": "hi"})`,
	)
	assert.Empty(t, diags)
}

func TestParamsPassUnknownClassSkipped(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`builder.add_node("Mystery", "m")`,
	)
	assert.Empty(t, diags, "classes outside the registry opt out of signature checks")
}

func TestParamsPassDynamicConfigSkipped(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`builder.add_node("LLMAgent", "agent", settings)`,
	)
	assert.Empty(t, diags, "unresolvable config keys prove nothing")
}

func TestParamsPassNonNodeClassIgnored(t *testing.T) {
	diags := runPassOn(t, paramsPass{},
		`class Helper:`,
		`    def run(self, **kwargs):`,
		`        return kwargs.get("anything")`,
	)
	assert.Empty(t, diags)
}
