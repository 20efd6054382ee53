package usecases

import (
	"time"

	"github.com/google/uuid"

	"github.com/stategraph/stategraph/internal/app/dto"
	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/internal/core/state"
	"github.com/stategraph/stategraph/internal/infrastructure/metrics"
)

// interactionController owns the pending interaction request for the
// duration of a suspension. It is consumed and discarded on resume.
type interactionController struct {
	request *dto.InteractionRequest
	edge    *graph.Edge
}

// publish builds the interaction request for a blocking edge. The node's
// raw output record is exposed in full, along with any options the node
// enumerated in its output under the "options" field.
func (c *interactionController) publish(nodeID string, snap state.Snapshot, edge *graph.Edge) *dto.InteractionRequest {
	output := snap.NodeResult(nodeID)
	req := &dto.InteractionRequest{
		ID:          uuid.NewString(),
		NodeID:      nodeID,
		NodeOutput:  output,
		Options:     enumeratedOptions(output),
		EdgeSource:  edge.Source(),
		EdgeTarget:  edge.Target(),
		RequestedAt: time.Now(),
	}
	c.request = req
	c.edge = edge
	metrics.SuspensionPublished(nodeID)
	return req
}

// refresh reissues the request after an input that did not unblock the edge.
func (c *interactionController) refresh(snap state.Snapshot) *dto.InteractionRequest {
	if c.request == nil {
		return nil
	}
	return c.publish(c.request.NodeID, snap, c.edge)
}

// pending returns the blocked edge, or nil when not suspended.
func (c *interactionController) pending() *graph.Edge {
	return c.edge
}

// clear discards the request once the suspension is resolved.
func (c *interactionController) clear() {
	c.request = nil
	c.edge = nil
}

func enumeratedOptions(output map[string]any) []string {
	raw, ok := output["options"].([]any)
	if !ok {
		return nil
	}
	options := make([]string, 0, len(raw))
	for _, o := range raw {
		if s, ok := o.(string); ok {
			options = append(options, s)
		}
	}
	return options
}
