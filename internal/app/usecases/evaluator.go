package usecases

import (
	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/internal/core/state"
	"github.com/stategraph/stategraph/internal/infrastructure/metrics"
)

// SnapshotEvaluator implements ConditionEvaluator over immutable snapshots.
// Predicates receive the snapshot by value and can never mutate live state,
// so evaluation is idempotent and repeatable; only an invocation counter is
// kept as a side effect.
type SnapshotEvaluator struct{}

// NewSnapshotEvaluator creates the default evaluator.
func NewSnapshotEvaluator() *SnapshotEvaluator {
	return &SnapshotEvaluator{}
}

// Evaluate applies one edge's predicate to the snapshot.
func (e *SnapshotEvaluator) Evaluate(edge *graph.Edge, snap state.Snapshot) bool {
	metrics.EdgeEvaluated(edge.Source())
	return edge.Evaluate(snap)
}

// FirstTrue returns the first edge in registration order whose condition
// holds on the snapshot. Scanning stops at the first hit, so when several
// conditions are true at once the earliest-registered edge wins, repeatably.
func (e *SnapshotEvaluator) FirstTrue(edges []*graph.Edge, snap state.Snapshot) *graph.Edge {
	for _, edge := range edges {
		if e.Evaluate(edge, snap) {
			return edge
		}
	}
	return nil
}
