package dto

import (
	"time"

	"github.com/stategraph/stategraph/internal/core/state"
)

// ExecutionStatus is the engine state machine's observable state.
type ExecutionStatus string

const (
	ExecutionStatusIdle      ExecutionStatus = "idle"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusSuspended ExecutionStatus = "suspended"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

// Config tunes one execution of a graph.
type Config struct {
	// MaxSteps optionally bounds the number of node invocations. Zero or
	// negative means unbounded; cyclic graphs then terminate only through
	// their edge conditions.
	MaxSteps int `json:"max_steps"`
	// CheckpointEvery persists a running checkpoint every N steps when a
	// saver is attached; suspended and terminal checkpoints are always saved.
	CheckpointEvery int `json:"checkpoint_every"`
	// StrictOutput turns a malformed node output from a recorded warning
	// into a Failed transition.
	StrictOutput bool `json:"strict_output"`
}

// Validate applies defaults in place.
func (c *Config) Validate() error {
	if c.CheckpointEvery <= 0 {
		c.CheckpointEvery = 10
	}
	return nil
}

// StepResult records one node invocation and its projection.
type StepResult struct {
	Step          int           `json:"step"`
	NodeID        string        `json:"node_id"`
	ChangedFields []string      `json:"changed_fields,omitempty"`
	StartTime     time.Time     `json:"start_time"`
	Duration      time.Duration `json:"duration"`
	Warning       string        `json:"warning,omitempty"`
}

// InteractionRequest describes why and where an execution suspended. It is
// surfaced to the caller, who obtains a human response and resumes via
// ProvideUserInput; the engine owns it for the duration of the suspension.
type InteractionRequest struct {
	ID          string         `json:"id"`
	NodeID      string         `json:"node_id"`
	NodeOutput  map[string]any `json:"node_output"`
	Options     []string       `json:"options,omitempty"`
	EdgeSource  string         `json:"edge_source"`
	EdgeTarget  string         `json:"edge_target"`
	RequestedAt time.Time      `json:"requested_at"`
}

// ExecutionResult is the outcome of Run, ProvideUserInput, or Continue.
// While suspended, Interaction is set; on terminal states, State holds the
// last consistent snapshot and FinalNode the node execution stopped at.
type ExecutionResult struct {
	ExecutionID string              `json:"execution_id"`
	GraphName   string              `json:"graph_name"`
	Status      ExecutionStatus     `json:"status"`
	FinalNode   string              `json:"final_node,omitempty"`
	State       state.Snapshot      `json:"state"`
	Interaction *InteractionRequest `json:"interaction,omitempty"`
	Steps       []StepResult        `json:"steps"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     time.Time           `json:"end_time"`
	Duration    time.Duration       `json:"duration"`
	Error       string              `json:"error,omitempty"`
}
