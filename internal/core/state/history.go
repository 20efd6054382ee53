package state

import "time"

// Operation identifies what caused a history entry.
type Operation string

const (
	// OpProject records a node output projected into global state.
	OpProject Operation = "project"
	// OpUserInput records an external input supplied for a node.
	OpUserInput Operation = "user_input"
	// OpFailure records a projection that could not interpret the payload.
	OpFailure Operation = "failure"
)

// HistoryEntry is an immutable audit record of one state change. Entries are
// append-only; their order is the single source of truth for "most recent".
type HistoryEntry struct {
	Timestamp     time.Time      `json:"timestamp"`
	NodeID        string         `json:"node_id"`
	Operation     Operation      `json:"operation"`
	Changes       map[string]any `json:"changes,omitempty"`
	Substitutions []string       `json:"substitutions,omitempty"`
	Error         string         `json:"error,omitempty"`
}
