// Package graph provides the immutable graph definition: handler-bearing
// nodes, predicate edges, and one designated entry node. A graph is produced
// by a Builder and never mutated afterwards, so executions can share it.
package graph

// Graph is a frozen directed graph of nodes and edges. Cycles are permitted;
// the caller is responsible for eventual termination (the engine only
// enforces an optional configured step bound).
type Graph struct {
	name          string
	nodes         map[string]*Node
	edges         []*Edge
	edgesBySource map[string][]*Edge
	entry         string
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// EntryPoint returns the id of the designated entry node.
func (g *Graph) EntryPoint() string { return g.entry }

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgesFrom returns the outgoing edges of a node in registration order.
// The returned slice is a copy.
func (g *Graph) EdgesFrom(id string) []*Edge {
	src := g.edgesBySource[id]
	out := make([]*Edge, len(src))
	copy(out, src)
	return out
}

// EdgeAt returns the edge with the given registration index, used to restore
// a pending transition from a persisted checkpoint.
func (g *Graph) EdgeAt(index int) (*Edge, bool) {
	if index < 0 || index >= len(g.edges) {
		return nil, false
	}
	return g.edges[index], true
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
