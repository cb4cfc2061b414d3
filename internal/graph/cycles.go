package graph

import (
	"sort"
	"strings"

	"github.com/loomwork/loomlint/internal/diag"
)

// Cycles finds cycles reachable through untagged connections, using a
// depth-first search with an explicit recursion stack. Nodes and neighbors
// are visited in sorted order and every cycle is rotated so its lexically
// smallest node id leads, so repeated runs over the same source report
// identical paths. Edges tagged as intentional cycle edges are excluded;
// those are validated as cycle definitions instead.
func (g *Graph) Cycles() [][]string {
	adj := make(map[string][]string, len(g.nodes))
	for _, c := range g.edges {
		if c.IsCycleEdge {
			continue
		}
		if !g.Has(c.SourceNode) || !g.Has(c.TargetNode) {
			continue
		}
		adj[c.SourceNode] = append(adj[c.SourceNode], c.TargetNode)
	}
	for id, nbs := range adj {
		sort.Strings(nbs)
		adj[id] = dedupeSorted(nbs)
	}

	permanent := make(map[string]bool)
	onStack := make(map[string]bool)
	seen := make(map[string]bool)
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		if permanent[id] {
			return
		}
		if onStack[id] {
			// Back edge: the cycle is the stack suffix starting at id.
			start := 0
			for i, s := range stack {
				if s == id {
					start = i
					break
				}
			}
			cyc := rotateToSmallest(append([]string(nil), stack[start:]...))
			key := strings.Join(cyc, "\x00")
			if !seen[key] {
				seen[key] = true
				cycles = append(cycles, cyc)
			}
			return
		}

		onStack[id] = true
		stack = append(stack, id)
		for _, nb := range adj[id] {
			visit(nb)
		}
		stack = stack[:len(stack)-1]
		delete(onStack, id)
		permanent[id] = true
	}

	for _, id := range g.NodeIDs() {
		visit(id)
	}
	return cycles
}

// CycleDiagnostics reports one CON005 per distinct cycle, anchored at the
// smallest node id in the cycle.
func (g *Graph) CycleDiagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, cyc := range g.Cycles() {
		path := strings.Join(append(append([]string(nil), cyc...), cyc[0]), " -> ")
		d := diag.Newf(diag.CodeCircularDependency, "circular dependency: %s", path)
		d.NodeID = cyc[0]
		out = append(out, d)
	}
	return out
}

func rotateToSmallest(cyc []string) []string {
	min := 0
	for i, id := range cyc {
		if id < cyc[min] {
			min = i
		}
	}
	return append(append([]string(nil), cyc[min:]...), cyc[:min]...)
}

func dedupeSorted(ss []string) []string {
	if len(ss) < 2 {
		return ss
	}
	out := ss[:1]
	for _, s := range ss[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
