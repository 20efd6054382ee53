package metrics

import "expvar"

// Projection counters, keyed by node id or field name.
var (
	projections   = expvar.NewMap("stategraph_projections_total")
	substitutions = expvar.NewMap("stategraph_field_substitutions_total")
	failures      = expvar.NewMap("stategraph_projection_failures_total")
)

// Engine counters.
var (
	evaluations    = expvar.NewMap("stategraph_edge_evaluations_total")
	suspensions    = expvar.NewMap("stategraph_suspensions_total")
	resumes        = expvar.NewMap("stategraph_resumes_total")
	terminalStates = expvar.NewMap("stategraph_terminal_total")
	eventsOut      = expvar.NewMap("stategraph_events_published_total")
)

// ProjectionRecorded counts a successful projection for a node.
func ProjectionRecorded(nodeID string) { projections.Add(nodeID, 1) }

// SubstitutionRecorded counts a default substituted for a failing field value.
func SubstitutionRecorded(field string) { substitutions.Add(field, 1) }

// ProjectionFailed counts a payload that could not be interpreted.
func ProjectionFailed(nodeID string) { failures.Add(nodeID, 1) }

// EdgeEvaluated counts one predicate evaluation for a source node.
func EdgeEvaluated(sourceID string) { evaluations.Add(sourceID, 1) }

// SuspensionPublished counts an interaction request raised for a node.
func SuspensionPublished(nodeID string) { suspensions.Add(nodeID, 1) }

// ResumeAttempted counts a user input supplied for a suspended node.
func ResumeAttempted(nodeID string) { resumes.Add(nodeID, 1) }

// TerminalReached counts executions entering a terminal status.
func TerminalReached(status string) { terminalStates.Add(status, 1) }

// EventPublished counts events fanned out on the bus, by kind.
func EventPublished(kind string) { eventsOut.Add(kind, 1) }
