package usecases

import (
	"context"

	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/internal/core/state"
)

// NodeInvoker executes a node's handler and captures its raw output.
type NodeInvoker interface {
	Invoke(ctx context.Context, node *graph.Node, input map[string]any) (any, error)
}

// ConditionEvaluator evaluates edge predicates against state snapshots.
// Implementations must be pure with respect to state.
type ConditionEvaluator interface {
	// Evaluate returns the predicate's verdict for one edge.
	Evaluate(edge *graph.Edge, snap state.Snapshot) bool

	// FirstTrue scans edges in registration order and returns the first one
	// whose condition holds, or nil. Registration order is the tie-break.
	FirstTrue(edges []*graph.Edge, snap state.Snapshot) *graph.Edge
}

// CheckpointRecorder persists execution snapshots at the persistence
// boundary. The engine fills in the snapshot; the recorder assigns identity
// and metadata and hands it to a Saver.
type CheckpointRecorder interface {
	// Record persists the checkpoint and returns its assigned id.
	Record(ctx context.Context, cp *checkpoint.Checkpoint) (string, error)

	// Load retrieves a checkpoint by id.
	Load(ctx context.Context, id string) (*checkpoint.Checkpoint, error)

	// Latest returns the most recent checkpoint of an execution.
	Latest(ctx context.Context, executionID string) (*checkpoint.Checkpoint, error)
}
