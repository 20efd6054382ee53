package usecases

import (
	"context"
	"fmt"

	"github.com/stategraph/stategraph/internal/core/graph"
)

// HandlerInvoker is the default NodeInvoker: it calls the node's handler
// synchronously, once per visit, and returns whatever raw payload the handler
// produced. The payload is interpreted later by the state store, not here.
type HandlerInvoker struct{}

// NewHandlerInvoker creates the default invoker.
func NewHandlerInvoker() *HandlerInvoker {
	return &HandlerInvoker{}
}

// Invoke runs the node's computation unit.
func (i *HandlerInvoker) Invoke(ctx context.Context, node *graph.Node, input map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := node.Run(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", node.ID(), err)
	}
	return out, nil
}
