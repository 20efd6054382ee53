// Package graph provides node definitions
package graph

import "context"

// Handler is the computation unit behind a node. It receives the entry input
// on the first visit of an execution (nil afterwards, since nodes consult
// shared state themselves) and returns a structured record of named fields:
// a map, or text/bytes carrying a JSON object. The engine treats it as a
// black box invoked once per visit.
type Handler func(ctx context.Context, input map[string]any) (any, error)

// Node is an identified computation step in a graph. Nodes are immutable
// once the graph is built.
type Node struct {
	id      string
	name    string
	handler Handler
}

// ID returns the node's stable identifier, unique within its graph.
func (n *Node) ID() string { return n.id }

// Name returns the display name (defaults to the id).
func (n *Node) Name() string { return n.name }

// Run invokes the wrapped handler and captures its raw output.
func (n *Node) Run(ctx context.Context, input map[string]any) (any, error) {
	if n.handler == nil {
		return nil, ErrNilHandler
	}
	return n.handler(ctx, input)
}
