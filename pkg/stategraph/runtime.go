package stategraph

import (
	"context"

	memory "github.com/stategraph/stategraph/internal/adapters/repository/memory"
	"github.com/stategraph/stategraph/internal/app/dto"
	"github.com/stategraph/stategraph/internal/app/services"
	"github.com/stategraph/stategraph/internal/app/usecases"
	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/internal/core/event"
	coregraph "github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/internal/core/state"
)

// Re-export core graph types for convenience.
type (
	Graph     = coregraph.Graph
	Node      = coregraph.Node
	Edge      = coregraph.Edge
	Builder   = coregraph.Builder
	Handler   = coregraph.Handler
	Predicate = coregraph.Predicate
)

// Re-export state types.
type (
	Snapshot     = state.Snapshot
	Store        = state.Store
	Mapping      = state.Mapping
	FieldMapping = state.FieldMapping
	FieldRule    = state.FieldRule
	HistoryEntry = state.HistoryEntry
)

// Re-export execution types.
type (
	Engine             = usecases.Engine
	Config             = dto.Config
	ExecutionResult    = dto.ExecutionResult
	ExecutionStatus    = dto.ExecutionStatus
	InteractionRequest = dto.InteractionRequest
	Event              = event.Event
)

// NewBuilder creates a builder for a named graph.
func NewBuilder(name string) *Builder { return coregraph.NewBuilder(name) }

// NewStore creates a state store with the given projection mapping.
func NewStore(mapping Mapping, opts ...state.Option) *Store {
	return state.NewStore(mapping, opts...)
}

// WithRule attaches a normalization rule to a state field.
func WithRule(field string, rule FieldRule) state.Option {
	return state.WithRule(field, rule)
}

// Identity builds a mapping that projects each field onto itself.
func Identity(fields ...string) Mapping { return state.Identity(fields...) }

// ResultKey is the reserved state key holding a node's verbatim output record.
func ResultKey(nodeID string) string { return state.ResultKey(nodeID) }

// UserInputKey is the reserved state key holding a node's user-input record.
func UserInputKey(nodeID string) string { return state.UserInputKey(nodeID) }

// Runtime wires engines to a checkpoint recorder and a shared event bus. The
// default runtime persists checkpoints in memory; production deployments
// construct their own recorder over the sqlite or postgres adapters and use
// the usecases package directly.
type Runtime struct {
	saver    *memory.Saver
	recorder *services.CheckpointService
	bus      *event.Bus
}

// NewRuntime constructs a runtime with in-memory persistence.
func NewRuntime() *Runtime {
	saver := memory.DefaultSaver()
	return &Runtime{
		saver:    saver,
		recorder: services.NewCheckpointService(saver),
		bus:      event.NewBus(0),
	}
}

// Events returns a subscription to the runtime's execution event stream.
func (rt *Runtime) Events() <-chan Event {
	return rt.bus.Subscribe()
}

// NewExecution creates an engine for one execution of the graph, with a fresh
// store projected through the given mapping.
func (rt *Runtime) NewExecution(g *Graph, mapping Mapping, opts ...usecases.EngineOption) (*Engine, error) {
	store := state.NewStore(mapping)
	opts = append([]usecases.EngineOption{
		usecases.WithRecorder(rt.recorder),
		usecases.WithEventBus(rt.bus),
	}, opts...)
	return usecases.NewEngine(g, store, opts...)
}

// Resume reconstructs an engine from a persisted checkpoint id and the same
// built graph. Suspended executions continue via Engine.ProvideUserInput,
// running ones via Engine.Continue.
func (rt *Runtime) Resume(ctx context.Context, checkpointID string, g *Graph, mapping Mapping, opts ...usecases.EngineOption) (*Engine, error) {
	cp, err := rt.recorder.Load(ctx, checkpointID)
	if err != nil {
		return nil, err
	}
	return rt.resume(g, mapping, cp, opts...)
}

// ResumeLatest resumes from the most recent checkpoint of an execution.
func (rt *Runtime) ResumeLatest(ctx context.Context, executionID string, g *Graph, mapping Mapping, opts ...usecases.EngineOption) (*Engine, error) {
	cp, err := rt.recorder.Latest(ctx, executionID)
	if err != nil {
		return nil, err
	}
	return rt.resume(g, mapping, cp, opts...)
}

func (rt *Runtime) resume(g *Graph, mapping Mapping, cp *checkpoint.Checkpoint, opts ...usecases.EngineOption) (*Engine, error) {
	store := state.NewStore(mapping)
	opts = append([]usecases.EngineOption{
		usecases.WithRecorder(rt.recorder),
		usecases.WithEventBus(rt.bus),
	}, opts...)
	return usecases.ResumeEngine(g, store, cp, opts...)
}

// Close releases the runtime's resources.
func (rt *Runtime) Close() {
	rt.bus.Close()
	rt.saver.Close()
}
