package rules

import (
	"context"

	"github.com/loomwork/loomlint/internal/diag"
)

// connectionsPass checks add_connection arity and everything the graph
// derives from resolved edges: endpoint existence, acyclicity of the
// non-cycle subgraph, and field-name plausibility.
type connectionsPass struct{}

func (connectionsPass) Name() string { return "connections" }

func (connectionsPass) Check(_ context.Context, in *Input) []diag.Diagnostic {
	var out []diag.Diagnostic

	for _, bad := range in.Unit.BadConnections {
		d := diag.Newf(diag.CodeBadConnectionArity,
			"add_connection expects 4 arguments (source, output, target, input), got %d", bad.Args)
		d.Line = bad.Line
		out = append(out, d)
	}

	for _, conn := range in.Unit.Connections {
		if !conn.TwoArg {
			continue
		}
		d := diag.Newf(diag.CodeDeprecatedConnection,
			"two-argument add_connection('%s', '%s') is deprecated; name the output and input fields explicitly",
			conn.SourceNode, conn.TargetNode)
		d.Line = conn.Line
		out = append(out, d)
	}

	out = append(out, in.Graph.EndpointDiagnostics()...)
	out = append(out, in.Graph.CycleDiagnostics()...)
	out = append(out, in.Graph.FieldNameDiagnostics(in.Cfg.CommonFieldNames)...)
	return out
}
