// Package graph provides edge definitions
package graph

import "github.com/stategraph/stategraph/internal/core/state"

// Predicate is a boolean condition over an immutable state snapshot. It must
// be pure with respect to state: read-only, no side effects, safe to call any
// number of times. A nil predicate always evaluates true.
type Predicate func(s state.Snapshot) bool

// Edge is a directed, conditionally-taken transition between two nodes.
// Edges are created at build time and immutable thereafter; the registration
// index fixes the tie-break order when several conditions hold at once.
type Edge struct {
	source        string
	target        string
	predicate     Predicate
	requiresInput bool
	index         int
}

// Source returns the id of the node the edge leaves.
func (e *Edge) Source() string { return e.source }

// Target returns the id of the node the edge enters.
func (e *Edge) Target() string { return e.target }

// RequiresInput reports whether taking the edge demands an external
// user-input record for the source node.
func (e *Edge) RequiresInput() bool { return e.requiresInput }

// Index returns the edge's registration order within the graph.
func (e *Edge) Index() int { return e.index }

// Evaluate applies the predicate to a snapshot.
func (e *Edge) Evaluate(s state.Snapshot) bool {
	if e.predicate == nil {
		return true
	}
	return e.predicate(s)
}
