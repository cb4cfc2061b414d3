// Package graph assembles the workflow graph from extracted IR and runs
// the structural checks over it: endpoint resolution, deterministic cycle
// detection over untagged connections, and the advisory field-name
// heuristic.
package graph
