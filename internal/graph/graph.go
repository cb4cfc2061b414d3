package graph

import (
	"sort"

	"github.com/loomwork/loomlint/internal/ir"
)

// Graph is the node map and connection list of one source unit. The first
// declaration of a node id wins; later duplicates are dropped so results
// stay deterministic.
type Graph struct {
	nodes map[string]ir.Node
	order []string
	edges []ir.Connection
}

// Build assembles a graph from extracted IR.
func Build(unit *ir.Unit) *Graph {
	g := &Graph{nodes: make(map[string]ir.Node, len(unit.Nodes))}
	for _, n := range unit.Nodes {
		if _, ok := g.nodes[n.ID]; ok {
			continue
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}
	g.edges = append(g.edges, unit.Connections...)
	return g
}

// Has reports whether a node id is declared.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the declaration recorded for a node id.
func (g *Graph) Node(id string) (ir.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns the node declarations in declaration order.
func (g *Graph) Nodes() []ir.Node {
	out := make([]ir.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs returns the declared node ids in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Connections returns every recorded connection, cycle edges included.
func (g *Graph) Connections() []ir.Connection {
	return g.edges
}
