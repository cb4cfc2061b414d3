package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomwork/loomlint/internal/pysrc"
)

func mustExtract(t *testing.T, lines ...string) *Unit {
	t.Helper()
	mod, err := pysrc.Parse(strings.Join(lines, "\n") + "\n")
	require.NoError(t, err)
	return Extract(mod)
}

func TestExtractNodes(t *testing.T) {
	unit := mustExtract(t,
		`builder.add_node("LLMAgent", "agent", {"model": "gpt-4", "prompt": "hi"})`,
		`builder.add_node("HttpFetcher", "fetch", config={"url": "https://example.com"})`,
		`builder.add_node("Logger", "log")`,
		`cfg = {"x": 1}`,
		`builder.add_node("Custom", "dyn", cfg)`,
		`builder.add_node(cls, "skipped")`,
	)
	require.Len(t, unit.Nodes, 4)

	agent := unit.Nodes[0]
	assert.Equal(t, "LLMAgent", agent.Class)
	assert.Equal(t, "agent", agent.ID)
	assert.Equal(t, 1, agent.Line)
	assert.Equal(t, []string{"model", "prompt"}, agent.ConfigKeys())
	assert.False(t, agent.ConfigDynamic)

	fetch := unit.Nodes[1]
	assert.Equal(t, []string{"url"}, fetch.ConfigKeys())

	log := unit.Nodes[2]
	assert.False(t, log.HasConfig())

	dyn := unit.Nodes[3]
	assert.True(t, dyn.ConfigDynamic)
	assert.True(t, dyn.HasConfig())
	assert.Empty(t, dyn.ConfigKeys())
}

func TestExtractNodeConfigSpread(t *testing.T) {
	unit := mustExtract(t,
		`builder.add_node("LLMAgent", "agent", {"model": "gpt-4", **extra})`,
	)
	require.Len(t, unit.Nodes, 1)
	assert.True(t, unit.Nodes[0].ConfigDynamic)
	assert.Equal(t, []string{"model"}, unit.Nodes[0].ConfigKeys())
}

func TestExtractConnections(t *testing.T) {
	unit := mustExtract(t,
		`builder.add_connection("fetch", "body", "agent", "prompt")`,
		`builder.add_connection("agent", "summary")`,
		`builder.add_connection("agent", "text", "log")`,
		`builder.add_connection("log", "out", "fetch", "trigger", cycle=True)`,
	)
	require.Len(t, unit.Connections, 3)

	full := unit.Connections[0]
	assert.Equal(t, "fetch", full.SourceNode)
	assert.Equal(t, "body", full.SourceOutput)
	assert.Equal(t, "agent", full.TargetNode)
	assert.Equal(t, "prompt", full.TargetInput)
	assert.False(t, full.TwoArg)
	assert.False(t, full.IsCycleEdge)
	assert.Equal(t, 1, full.Line)

	short := unit.Connections[1]
	assert.True(t, short.TwoArg)
	assert.Equal(t, "agent", short.SourceNode)
	assert.Equal(t, "summary", short.TargetNode)
	assert.Empty(t, short.SourceOutput)
	assert.Empty(t, short.TargetInput)

	tagged := unit.Connections[2]
	assert.True(t, tagged.IsCycleEdge)

	require.Len(t, unit.BadConnections, 1)
	assert.Equal(t, 3, unit.BadConnections[0].Args)
	assert.Equal(t, 3, unit.BadConnections[0].Line)

	assert.Equal(t, []int{4}, unit.CycleFlagLines)
}

func TestExtractConnectionVariableEndpoints(t *testing.T) {
	unit := mustExtract(t,
		`builder.add_connection(src, "out", "b", "in")`,
	)
	require.Len(t, unit.Connections, 1)
	assert.Equal(t, "src", unit.Connections[0].SourceNode)
}

func TestExtractCycleFluent(t *testing.T) {
	unit := mustExtract(t,
		`builder.create_cycle("refine") \`,
		`    .connect("critic", "writer", mapping={"feedback": "draft"}) \`,
		`    .max_iterations(5) \`,
		`    .converge_when("quality > 0.8") \`,
		`    .timeout(30.5) \`,
		`    .build()`,
	)
	require.Len(t, unit.Cycles, 1)
	c := unit.Cycles[0]

	assert.Equal(t, "refine", c.Name)
	assert.Equal(t, 1, c.Line)
	require.Len(t, c.Edges, 1)
	assert.Equal(t, "critic", c.Edges[0].Source)
	assert.Equal(t, "writer", c.Edges[0].Target)
	assert.True(t, c.Edges[0].MappingOK)

	require.True(t, c.HasMaxIterations)
	require.NotNil(t, c.MaxIterations)
	assert.Equal(t, 5, *c.MaxIterations)

	require.True(t, c.HasConvergeWhen)
	require.NotNil(t, c.ConvergeWhen)
	assert.Equal(t, "quality > 0.8", *c.ConvergeWhen)

	require.True(t, c.HasTimeout)
	require.NotNil(t, c.TimeoutSeconds)
	assert.InDelta(t, 30.5, *c.TimeoutSeconds, 1e-9)

	assert.Empty(t, unit.ExecCalls, "cycle build is not an execution call")
}

func TestExtractCycleVariableMediated(t *testing.T) {
	unit := mustExtract(t,
		`cycle = builder.create_cycle("loop")`,
		`cycle.connect("a", "b")`,
		`cycle.max_iterations(3)`,
		`alias = cycle`,
		`alias.converge_when("done == True")`,
		`alias.build()`,
	)
	require.Len(t, unit.Cycles, 1)
	c := unit.Cycles[0]

	assert.Equal(t, "loop", c.Name)
	require.Len(t, c.Edges, 1)
	assert.True(t, c.HasMaxIterations)
	assert.True(t, c.HasConvergeWhen)
	assert.False(t, c.HasTimeout)
}

func TestExtractCycleMalformedArguments(t *testing.T) {
	unit := mustExtract(t,
		`c = builder.create_cycle("odd")`,
		`c.connect("a", "b", mapping={"feedback": 1})`,
		`c.max_iterations(limit)`,
		`c.timeout("soon")`,
	)
	require.Len(t, unit.Cycles, 1)
	c := unit.Cycles[0]

	require.Len(t, c.Edges, 1)
	assert.False(t, c.Edges[0].MappingOK)

	assert.True(t, c.HasMaxIterations)
	assert.Nil(t, c.MaxIterations, "dynamic limit has no literal value")

	assert.True(t, c.HasTimeout)
	assert.Nil(t, c.TimeoutSeconds)
	assert.True(t, c.TimeoutNonNumeric)
}

func TestExtractCycleNegativeTimeout(t *testing.T) {
	unit := mustExtract(t,
		`builder.create_cycle("x").connect("a", "b").timeout(-5)`,
	)
	require.Len(t, unit.Cycles, 1)
	c := unit.Cycles[0]
	require.NotNil(t, c.TimeoutSeconds)
	assert.InDelta(t, -5.0, *c.TimeoutSeconds, 1e-9)
	assert.False(t, c.TimeoutNonNumeric)
}

func TestExtractExecutionCalls(t *testing.T) {
	unit := mustExtract(t,
		`workflow = WorkflowBuilder()`,
		`runtime = LocalRuntime()`,
		`workflow.execute(runtime)`,
	)
	require.Len(t, unit.ExecCalls, 1)
	call := unit.ExecCalls[0]
	assert.Equal(t, "workflow", call.Receiver)
	assert.Equal(t, KindBuilder, call.ReceiverKind)
	assert.Equal(t, "execute", call.Method)
	assert.Equal(t, 3, call.Line)
}

func TestExtractCorrectExecutionOrder(t *testing.T) {
	unit := mustExtract(t,
		`builder = loom.workflow.WorkflowBuilder()`,
		`rt = loom.runtime.LocalRuntime()`,
		`rt.execute(builder.build())`,
	)
	require.Len(t, unit.ExecCalls, 2)

	var execute, build *ExecCall
	for i := range unit.ExecCalls {
		switch unit.ExecCalls[i].Method {
		case "execute":
			execute = &unit.ExecCalls[i]
		case "build":
			build = &unit.ExecCalls[i]
		}
	}
	require.NotNil(t, execute)
	require.NotNil(t, build)
	assert.Equal(t, KindRuntime, execute.ReceiverKind)
	assert.Equal(t, KindBuilder, build.ReceiverKind)
}

func TestExtractBuiltWorkflowBinding(t *testing.T) {
	unit := mustExtract(t,
		`builder = WorkflowBuilder()`,
		`wf = builder.build()`,
		`wf.execute(rt)`,
	)
	require.Len(t, unit.ExecCalls, 2)
	assert.Equal(t, "build", unit.ExecCalls[0].Method)
	assert.Equal(t, "execute", unit.ExecCalls[1].Method)
	assert.Equal(t, KindWorkflow, unit.ExecCalls[1].ReceiverKind)
	assert.Equal(t, "wf", unit.ExecCalls[1].Receiver)
}

func TestExtractRebindingClearsKind(t *testing.T) {
	unit := mustExtract(t,
		`workflow = WorkflowBuilder()`,
		`workflow = 42`,
		`workflow.execute(rt)`,
	)
	require.Len(t, unit.ExecCalls, 1)
	assert.Equal(t, KindUnknown, unit.ExecCalls[0].ReceiverKind)
}

func TestExtractNestedShapes(t *testing.T) {
	unit := mustExtract(t,
		`nodes = [builder.add_node("A", "a"), builder.add_node("B", "b")]`,
		`if builder.add_connection("a", "out", "b", "in"):`,
		`    pass`,
	)
	assert.Len(t, unit.Nodes, 2)
	assert.Len(t, unit.Connections, 1)
}

func TestExtractInsideFunction(t *testing.T) {
	unit := mustExtract(t,
		`def build_workflow():`,
		`    builder = WorkflowBuilder()`,
		`    builder.add_node("LLMAgent", "agent")`,
		`    return builder.build()`,
	)
	require.Len(t, unit.Nodes, 1)
	require.Len(t, unit.ExecCalls, 1)
	assert.Equal(t, KindBuilder, unit.ExecCalls[0].ReceiverKind)
}

func TestCollectUses(t *testing.T) {
	unit := mustExtract(t,
		`import loom.workflow`,
		`from loom.nodes.base import Node`,
		`builder = loom.workflow.WorkflowBuilder()`,
		`count = 0`,
		`count += 1`,
		`class Custom(Node):`,
		`    pass`,
	)

	names := make(map[string]bool)
	for _, u := range unit.Uses {
		names[u.Name] = true
	}
	assert.True(t, names["loom"], "attribute root counts as a use")
	assert.True(t, names["Node"], "class base counts as a use")
	assert.True(t, names["count"], "augmented assignment reads its target")
	assert.False(t, names["builder"], "assignment target is a binding, not a use")
	assert.False(t, names["WorkflowBuilder"], "attribute members are not bare uses")
}

func TestBoundNames(t *testing.T) {
	unit := mustExtract(t,
		`import loom.workflow`,
		`builder = loom.workflow.WorkflowBuilder()`,
		`def helper(limit):`,
		`    return limit`,
		`class Custom:`,
		`    pass`,
		`for item in rows:`,
		`    pass`,
	)

	for _, name := range []string{"builder", "helper", "limit", "Custom", "item"} {
		assert.True(t, unit.IsBound(name), "expected %q to be bound", name)
	}
	assert.False(t, unit.IsBound("loom"), "import bindings are tracked on Imports")
	assert.False(t, unit.IsBound("rows"), "reads do not bind")
}

func TestCollectUsesSkipsLoopTargets(t *testing.T) {
	unit := mustExtract(t,
		`for item in items:`,
		`    process(item)`,
	)
	first := map[string]int{}
	for _, u := range unit.Uses {
		if _, ok := first[u.Name]; !ok {
			first[u.Name] = u.Line
		}
	}
	assert.Equal(t, 1, first["items"])
	assert.Equal(t, 2, first["item"], "loop target counts only when read back")
	assert.Equal(t, 2, first["process"])
}
