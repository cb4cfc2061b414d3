package graph

import (
	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/ir"
)

// EndpointDiagnostics resolves every connection endpoint against the node
// map. An unknown source is CON003, an unknown target CON004. Cycle-tagged
// and two-argument connections still reference real nodes, so they are
// checked like any other edge. Dynamic endpoints are skipped: they cannot
// be resolved statically, and absence proves nothing.
func (g *Graph) EndpointDiagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, c := range g.edges {
		if c.SourceNode != ir.DynamicName && !g.Has(c.SourceNode) {
			d := diag.Newf(diag.CodeUnknownSourceNode,
				"connection source node '%s' is not declared", c.SourceNode)
			d.Line = c.Line
			d.NodeID = c.SourceNode
			out = append(out, d)
		}
		if c.TargetNode != ir.DynamicName && !g.Has(c.TargetNode) {
			d := diag.Newf(diag.CodeUnknownTargetNode,
				"connection target node '%s' is not declared", c.TargetNode)
			d.Line = c.Line
			d.NodeID = c.TargetNode
			out = append(out, d)
		}
	}
	return out
}
