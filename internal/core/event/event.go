// Package event provides a one-way stream of execution events for external
// tooling (audit, dashboards). Events describe what the engine did; they are
// never consulted for control decisions.
package event

import "time"

// Kind classifies an execution event.
type Kind string

const (
	// KindStep marks one node invocation projected into state.
	KindStep Kind = "step"
	// KindSuspended marks an execution blocked on external input.
	KindSuspended Kind = "suspended"
	// KindResumed marks a suspension satisfied by user input.
	KindResumed Kind = "resumed"
	// KindCompleted marks normal termination.
	KindCompleted Kind = "completed"
	// KindFailed marks abnormal termination.
	KindFailed Kind = "failed"
)

// Event is one observation of an execution.
type Event struct {
	Kind        Kind           `json:"kind"`
	ExecutionID string         `json:"execution_id"`
	NodeID      string         `json:"node_id,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}
