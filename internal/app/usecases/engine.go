// Package usecases contains the graph engine: the orchestrator that drives
// node invocation, state projection, edge evaluation, and the
// suspend/resume protocol for edges requiring external input.
package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stategraph/stategraph/internal/app/dto"
	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/internal/core/event"
	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/internal/core/state"
	"github.com/stategraph/stategraph/internal/infrastructure/metrics"
)

// Engine executes one graph with one state store. Its state machine is
// Idle -> Running -> {Suspended, Completed, Failed}, with Suspended -> Running
// on ProvideUserInput. Completed and Failed are terminal: the engine is not
// reusable; a new execution starts a fresh store (the graph can be shared).
//
// A single execution is strictly sequential: invoke, project, evaluate, in
// that order, never overlapped. Suspension returns control to the caller
// instead of parking a goroutine; everything needed to resume lives in the
// store and a pending-edge pointer, so a resume can happen in another process
// via a persisted checkpoint.
type Engine struct {
	mu sync.Mutex

	graph     *graph.Graph
	store     *state.Store
	invoker   NodeInvoker
	evaluator ConditionEvaluator
	recorder  CheckpointRecorder
	bus       *event.Bus
	cfg       dto.Config

	executionID string
	status      dto.ExecutionStatus
	current     string
	entryInput  map[string]any
	interaction interactionController
	steps       []dto.StepResult
	stepCount   int
	startTime   time.Time
	lastErr     error
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithConfig sets the execution configuration.
func WithConfig(cfg dto.Config) EngineOption {
	return func(e *Engine) { e.cfg = cfg }
}

// WithRecorder attaches the persistence boundary; the engine notifies it of
// every suspended and terminal snapshot, plus periodic running snapshots.
func WithRecorder(r CheckpointRecorder) EngineOption {
	return func(e *Engine) { e.recorder = r }
}

// WithEventBus attaches an execution event stream for external tooling.
func WithEventBus(b *event.Bus) EngineOption {
	return func(e *Engine) { e.bus = b }
}

// WithInvoker overrides the node invoker.
func WithInvoker(i NodeInvoker) EngineOption {
	return func(e *Engine) { e.invoker = i }
}

// WithEvaluator overrides the condition evaluator.
func WithEvaluator(ev ConditionEvaluator) EngineOption {
	return func(e *Engine) { e.evaluator = ev }
}

// NewEngine creates an idle engine for one execution of the graph.
func NewEngine(g *graph.Graph, store *state.Store, opts ...EngineOption) (*Engine, error) {
	if g == nil {
		return nil, dto.ErrNilGraph
	}
	if store == nil {
		return nil, dto.ErrNilStore
	}
	e := &Engine{
		graph:       g,
		store:       store,
		invoker:     NewHandlerInvoker(),
		evaluator:   NewSnapshotEvaluator(),
		executionID: uuid.NewString(),
		status:      dto.ExecutionStatusIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	_ = e.cfg.Validate()
	return e, nil
}

// ResumeEngine reconstructs an engine from a persisted checkpoint and the
// same built graph. The store must be configured with the deployment's
// mapping and rules but otherwise fresh; it is seeded from the checkpoint.
// Suspended checkpoints resume via ProvideUserInput, running checkpoints via
// Continue. Terminal checkpoints are not resumable.
func ResumeEngine(g *graph.Graph, store *state.Store, cp *checkpoint.Checkpoint, opts ...EngineOption) (*Engine, error) {
	e, err := NewEngine(g, store, opts...)
	if err != nil {
		return nil, err
	}
	if cp.GraphName != g.Name() {
		return nil, dto.ErrGraphMismatch
	}
	if _, ok := g.Node(cp.CurrentNode); !ok {
		return nil, graph.ErrNodeNotFound
	}

	status := dto.ExecutionStatus(cp.Status)
	switch status {
	case dto.ExecutionStatusSuspended, dto.ExecutionStatusRunning:
	default:
		return nil, dto.ErrUnresumableStatus
	}

	store.Seed(state.Snapshot(cp.State), cp.History)
	e.executionID = cp.ExecutionID
	e.status = status
	e.current = cp.CurrentNode
	e.stepCount = cp.Metadata.Step
	e.startTime = time.Now()

	if status == dto.ExecutionStatusSuspended {
		edge, ok := g.EdgeAt(cp.PendingEdge)
		if !ok || edge.Source() != cp.CurrentNode {
			return nil, dto.ErrPendingEdgeMissing
		}
		e.interaction.publish(cp.CurrentNode, store.Snapshot(), edge)
	}
	return e, nil
}

// ExecutionID returns the execution's identifier.
func (e *Engine) ExecutionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executionID
}

// Status returns the engine's current state-machine state.
func (e *Engine) Status() dto.ExecutionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// History exposes the ordered state change history for audit tooling.
func (e *Engine) History() []state.HistoryEntry {
	return e.store.History()
}

// Snapshot exposes a defensive copy of the current global state.
func (e *Engine) Snapshot() state.Snapshot {
	return e.store.Snapshot()
}

// Run starts execution at the graph's entry node with the given entry input.
// It returns when the execution suspends or reaches a terminal state.
func (e *Engine) Run(ctx context.Context, input map[string]any) (*dto.ExecutionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != dto.ExecutionStatusIdle {
		return nil, dto.ErrAlreadyStarted
	}
	e.status = dto.ExecutionStatusRunning
	e.current = e.graph.EntryPoint()
	e.entryInput = input
	e.startTime = time.Now()

	return e.loop(ctx)
}

// ProvideUserInput resumes a suspended execution with an external input. The
// input is recorded under {node}_user_input, the blocking edge is
// re-evaluated, and the run either proceeds or stays suspended with a
// refreshed interaction request. Calls after Completed or Failed are
// rejected with ErrExecutionFinished.
func (e *Engine) ProvideUserInput(ctx context.Context, input any) (*dto.ExecutionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status.Terminal() {
		return nil, dto.ErrExecutionFinished
	}
	if e.status != dto.ExecutionStatusSuspended {
		return nil, dto.ErrNotSuspended
	}

	edge := e.interaction.pending()
	metrics.ResumeAttempted(edge.Source())
	e.store.RecordUserInput(edge.Source(), input)

	snap := e.store.Snapshot()
	if !e.evaluator.Evaluate(edge, snap) {
		// Input did not satisfy the condition; stay suspended and reissue.
		e.interaction.refresh(snap)
		e.record(ctx, edge)
		return e.result(), nil
	}

	e.interaction.clear()
	e.publish(event.KindResumed, edge.Source(), map[string]any{"target": edge.Target()})
	e.status = dto.ExecutionStatusRunning
	e.current = edge.Target()

	return e.loop(ctx)
}

// Continue resumes an engine restored from a running checkpoint. The node
// recorded as current is invoked next.
func (e *Engine) Continue(ctx context.Context) (*dto.ExecutionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status.Terminal() {
		return nil, dto.ErrExecutionFinished
	}
	if e.status != dto.ExecutionStatusRunning {
		return nil, dto.ErrNotRunning
	}
	return e.loop(ctx)
}

// loop drives Running steps until suspension or a terminal state. The mutex
// is held for the whole loop; one execution is never concurrent with itself.
func (e *Engine) loop(ctx context.Context) (*dto.ExecutionResult, error) {
	for {
		if err := ctx.Err(); err != nil {
			return e.fail(ctx, e.current, err)
		}
		if e.cfg.MaxSteps > 0 && e.stepCount >= e.cfg.MaxSteps {
			return e.fail(ctx, e.current, dto.ErrStepLimitExceeded)
		}
		if e.recorder != nil && e.stepCount > 0 && e.stepCount%e.cfg.CheckpointEvery == 0 {
			e.record(ctx, nil)
		}

		node, ok := e.graph.Node(e.current)
		if !ok {
			return e.fail(ctx, e.current, graph.ErrNodeNotFound)
		}

		// Entry input is consumed by the first step only; later nodes read
		// the shared state themselves.
		input := e.entryInput
		e.entryInput = nil

		stepStart := time.Now()
		raw, err := e.invoker.Invoke(ctx, node, input)
		if err != nil {
			return e.fail(ctx, node.ID(), err)
		}

		changed, perr := e.store.Project(node.ID(), raw)
		step := dto.StepResult{
			Step:          e.stepCount + 1,
			NodeID:        node.ID(),
			ChangedFields: changed,
			StartTime:     stepStart,
			Duration:      time.Since(stepStart),
		}
		if perr != nil {
			// The store already appended a failure history entry and left
			// global state untouched.
			if e.cfg.StrictOutput {
				e.steps = append(e.steps, step)
				return e.fail(ctx, node.ID(), perr)
			}
			step.Warning = perr.Error()
		}
		e.stepCount++
		e.steps = append(e.steps, step)
		e.publish(event.KindStep, node.ID(), map[string]any{"changed": changed})

		// Edge evaluation reads the complete, freshly projected state.
		snap := e.store.Snapshot()
		next := e.evaluator.FirstTrue(e.graph.EdgesFrom(node.ID()), snap)
		if next == nil {
			return e.complete(ctx, node.ID())
		}
		if next.RequiresInput() && !snap.HasUserInput(next.Source()) {
			return e.suspend(ctx, node.ID(), snap, next)
		}
		e.current = next.Target()
	}
}

func (e *Engine) suspend(ctx context.Context, nodeID string, snap state.Snapshot, edge *graph.Edge) (*dto.ExecutionResult, error) {
	e.status = dto.ExecutionStatusSuspended
	req := e.interaction.publish(nodeID, snap, edge)
	e.record(ctx, edge)
	e.publish(event.KindSuspended, nodeID, map[string]any{"request_id": req.ID})
	return e.result(), nil
}

func (e *Engine) complete(ctx context.Context, nodeID string) (*dto.ExecutionResult, error) {
	e.status = dto.ExecutionStatusCompleted
	e.current = nodeID
	e.record(ctx, nil)
	e.publish(event.KindCompleted, nodeID, nil)
	metrics.TerminalReached(string(dto.ExecutionStatusCompleted))
	return e.result(), nil
}

func (e *Engine) fail(ctx context.Context, nodeID string, err error) (*dto.ExecutionResult, error) {
	e.status = dto.ExecutionStatusFailed
	e.current = nodeID
	e.lastErr = err
	e.record(ctx, nil)
	e.publish(event.KindFailed, nodeID, map[string]any{"error": err.Error()})
	metrics.TerminalReached(string(dto.ExecutionStatusFailed))
	return e.result(), err
}

// record notifies the persistence boundary, best effort: a checkpoint sink
// failure never alters the execution outcome.
func (e *Engine) record(ctx context.Context, pending *graph.Edge) {
	if e.recorder == nil {
		return
	}
	idx := -1
	if pending != nil {
		idx = pending.Index()
	}
	cp := &checkpoint.Checkpoint{
		GraphName:   e.graph.Name(),
		ExecutionID: e.executionID,
		Status:      string(e.status),
		CurrentNode: e.current,
		PendingEdge: idx,
		State:       map[string]any(e.store.Snapshot()),
		History:     e.store.History(),
		Metadata: checkpoint.Metadata{
			Step:   e.stepCount,
			Source: "engine",
		},
		Timestamp: time.Now(),
	}
	_, _ = e.recorder.Record(ctx, cp)
}

func (e *Engine) publish(kind event.Kind, nodeID string, payload map[string]any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(event.Event{
		Kind:        kind,
		ExecutionID: e.executionID,
		NodeID:      nodeID,
		Payload:     payload,
	})
}

// result builds the caller-facing view of the execution. The snapshot is the
// last consistent global state; on failure it accompanies the failing node id
// so callers can retry fresh or resume from persistence.
func (e *Engine) result() *dto.ExecutionResult {
	now := time.Now()
	res := &dto.ExecutionResult{
		ExecutionID: e.executionID,
		GraphName:   e.graph.Name(),
		Status:      e.status,
		FinalNode:   e.current,
		State:       e.store.Snapshot(),
		Steps:       append([]dto.StepResult(nil), e.steps...),
		StartTime:   e.startTime,
		EndTime:     now,
		Duration:    now.Sub(e.startTime),
	}
	if e.status == dto.ExecutionStatusSuspended {
		res.Interaction = e.interaction.request
	}
	if e.lastErr != nil {
		res.Error = e.lastErr.Error()
	}
	return res
}
