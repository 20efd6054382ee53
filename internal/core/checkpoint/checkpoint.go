// Package checkpoint provides the persisted execution snapshot and the
// pluggable Saver contract the engine notifies on every suspended or
// terminal state.
package checkpoint

import (
	"time"

	"github.com/stategraph/stategraph/internal/core/state"
)

// Checkpoint is everything needed to resume an execution in another process:
// the global state, the history, the current node, and a small pointer to the
// edge the execution is blocked on (registration index, -1 when none). The
// graph definition itself is not persisted; callers resume against the same
// built graph value.
type Checkpoint struct {
	ID          string               `json:"id"`
	GraphName   string               `json:"graph_name"`
	ExecutionID string               `json:"execution_id"`
	Status      string               `json:"status"`
	CurrentNode string               `json:"current_node"`
	PendingEdge int                  `json:"pending_edge"`
	State       map[string]any       `json:"state"`
	History     []state.HistoryEntry `json:"history,omitempty"`
	Metadata    Metadata             `json:"metadata"`
	Timestamp   time.Time            `json:"timestamp"`
	Version     string               `json:"version"`
}

// Metadata carries audit information about a checkpoint.
type Metadata struct {
	Step      int      `json:"step"`
	Source    string   `json:"source"`
	CreatedBy string   `json:"created_by,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Validate ensures checkpoint integrity before persistence.
func (c *Checkpoint) Validate() error {
	if c.ID == "" {
		return ErrInvalidCheckpointID
	}
	if c.GraphName == "" {
		return ErrInvalidGraphName
	}
	if c.ExecutionID == "" {
		return ErrInvalidExecutionID
	}
	if c.State == nil {
		return ErrNilState
	}
	return nil
}
