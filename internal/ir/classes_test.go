package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNodeClass(t *testing.T) {
	unit := mustExtract(t,
		`@register_node("summarizer")`,
		`class Summarizer(Node):`,
		`    def get_parameters(self):`,
		`        return [`,
		`            NodeParameter(name="text", type="string", required=True),`,
		`            NodeParameter(name="max_words", type="int", required=False, default=100),`,
		`        ]`,
		``,
		`    def run(self, **kwargs):`,
		`        text = kwargs["text"]`,
		`        limit = kwargs.get("max_words", 100)`,
		`        return {"summary": text[:limit]}`,
	)
	require.Len(t, unit.Classes, 1)
	c := unit.Classes[0]

	assert.Equal(t, "Summarizer", c.Name)
	assert.Equal(t, 2, c.Line)
	assert.Equal(t, []string{"Node"}, c.Bases)
	assert.True(t, c.Registered)
	assert.True(t, c.IsNodeClass())

	require.True(t, c.HasGetParameters)
	assert.Equal(t, 3, c.ParamsLine)
	require.Len(t, c.Params, 2)

	text := c.Params[0]
	assert.Equal(t, "text", text.Name)
	assert.Equal(t, "string", text.Type)
	assert.True(t, text.HasType)
	assert.True(t, text.Required)
	assert.False(t, text.HasDefault)
	assert.Equal(t, 5, text.Line)

	words := c.Params[1]
	assert.Equal(t, "max_words", words.Name)
	assert.False(t, words.Required)
	assert.True(t, words.HasDefault)

	require.Len(t, c.KwargUses, 2)
	assert.Equal(t, KwargUse{Name: "text", Line: 10}, c.KwargUses[0])
	assert.Equal(t, KwargUse{Name: "max_words", Line: 11}, c.KwargUses[1])
}

func TestExtractClassDictParameters(t *testing.T) {
	unit := mustExtract(t,
		`class Mapper(Node):`,
		`    def get_parameters(self):`,
		`        return {`,
		`            "source": NodeParameter(type="string", required=True),`,
		`            "legacy": {"type": "string"},`,
		`        }`,
	)
	require.Len(t, unit.Classes, 1)
	c := unit.Classes[0]
	require.Len(t, c.Params, 2)

	assert.Equal(t, "source", c.Params[0].Name)
	assert.True(t, c.Params[0].HasType)
	assert.Equal(t, "string", c.Params[0].Type)

	// A bare dict value still declares the name, just without a
	// recognizable type.
	assert.Equal(t, "legacy", c.Params[1].Name)
	assert.False(t, c.Params[1].HasType)
}

func TestExtractClassUntypedParameter(t *testing.T) {
	unit := mustExtract(t,
		`class Fetcher(loom.nodes.base.Node):`,
		`    def get_parameters(self):`,
		`        return [NodeParameter(name="url", required=True)]`,
	)
	require.Len(t, unit.Classes, 1)
	c := unit.Classes[0]
	assert.True(t, c.IsNodeClass())
	require.Len(t, c.Params, 1)
	assert.False(t, c.Params[0].HasType)
}

func TestExtractClassWithoutParameterMethod(t *testing.T) {
	unit := mustExtract(t,
		`class Sink(Node):`,
		`    def run(self, **kwargs):`,
		`        return kwargs.get("value")`,
	)
	require.Len(t, unit.Classes, 1)
	c := unit.Classes[0]
	assert.False(t, c.HasGetParameters)
	require.Len(t, c.KwargUses, 1)
	assert.Equal(t, "value", c.KwargUses[0].Name)
}

func TestExtractClassCustomKwargName(t *testing.T) {
	unit := mustExtract(t,
		`class Echo(Node):`,
		`    def execute(self, **kw):`,
		`        other["x"]`,
		`        return kw["payload"]`,
	)
	require.Len(t, unit.Classes, 1)
	c := unit.Classes[0]
	require.Len(t, c.KwargUses, 1)
	assert.Equal(t, "payload", c.KwargUses[0].Name)
}

func TestExtractClassConditionalReturn(t *testing.T) {
	unit := mustExtract(t,
		`class Switch(Node):`,
		`    def get_parameters(self):`,
		`        if detailed:`,
		`            return [NodeParameter(name="mode", type="string")]`,
		`        return [NodeParameter(name="mode", type="string"), NodeParameter(name="limit", type="int")]`,
	)
	c := unit.Classes[0]
	names := c.ParamNames()
	assert.Equal(t, []string{"mode", "mode", "limit"}, names)
}

func TestIsNodeClass(t *testing.T) {
	tests := []struct {
		name   string
		class  Class
		isNode bool
	}{
		{"plain base", Class{Bases: []string{"Node"}}, true},
		{"dotted base", Class{Bases: []string{"loom.nodes.base.Node"}}, true},
		{"registered only", Class{Registered: true}, true},
		{"unrelated", Class{Bases: []string{"object"}}, false},
		{"suffix trap", Class{Bases: []string{"NotANode"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isNode, tt.class.IsNodeClass())
		})
	}
}
