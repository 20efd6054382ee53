package integration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stategraph/stategraph/internal/adapters/repository/sqlite"
	"github.com/stategraph/stategraph/internal/app/dto"
	"github.com/stategraph/stategraph/internal/app/services"
	"github.com/stategraph/stategraph/internal/app/usecases"
	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/internal/core/state"
)

// buildModerationGraph assembles classify -> review -> publish, with the
// review step gated on a human verdict and a rejection path back to classify.
func buildModerationGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder("moderation")

	_, err := b.AddNode("classify", func(_ context.Context, input map[string]any) (any, error) {
		return map[string]any{"category": "news", "confidence": 0.8}, nil
	})
	require.NoError(t, err)
	_, err = b.AddNode("review", func(_ context.Context, _ map[string]any) (any, error) {
		return map[string]any{
			"draft":   "reviewed item",
			"options": []any{"approve", "reject"},
		}, nil
	})
	require.NoError(t, err)
	_, err = b.AddNode("publish", func(_ context.Context, _ map[string]any) (any, error) {
		return map[string]any{"published": true}, nil
	})
	require.NoError(t, err)

	_, err = b.AddEdge("classify", "review", nil)
	require.NoError(t, err)
	_, err = b.AddInputEdge("review", "publish", func(s state.Snapshot) bool {
		ui := s.UserInput("review")
		return ui == nil || ui["input"] == "approve"
	})
	require.NoError(t, err)
	require.NoError(t, b.SetEntryPoint("classify"))

	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func newMapping() state.Mapping {
	return state.Identity("category", "confidence", "draft", "published")
}

// TestSuspendResumeAcrossProcesses drives a full execution through a
// database-backed checkpoint: process one runs until the human gate and
// exits; process two reconstructs the engine from the persisted checkpoint
// and completes the run.
func TestSuspendResumeAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "checkpoints.db")
	g := buildModerationGraph(t)

	var execID string

	// Process one: run to suspension, persist, and drop everything.
	{
		db, saver, err := sqlite.Open(ctx, dbPath)
		require.NoError(t, err)
		recorder := services.NewCheckpointService(saver)

		engine, err := usecases.NewEngine(g, state.NewStore(newMapping()),
			usecases.WithRecorder(recorder))
		require.NoError(t, err)

		res, err := engine.Run(ctx, map[string]any{"item": "raw text"})
		require.NoError(t, err)
		require.Equal(t, dto.ExecutionStatusSuspended, res.Status)
		require.NotNil(t, res.Interaction)
		assert.Equal(t, []string{"approve", "reject"}, res.Interaction.Options)

		execID = engine.ExecutionID()
		require.NoError(t, db.Close())
	}

	// Process two: reopen the database, restore, and resume.
	{
		db, saver, err := sqlite.Open(ctx, dbPath)
		require.NoError(t, err)
		defer db.Close()
		recorder := services.NewCheckpointService(saver)

		cp, err := recorder.Latest(ctx, execID)
		require.NoError(t, err)
		assert.Equal(t, "review", cp.CurrentNode)

		engine, err := usecases.ResumeEngine(g, state.NewStore(newMapping()), cp,
			usecases.WithRecorder(recorder))
		require.NoError(t, err)
		assert.Equal(t, execID, engine.ExecutionID())
		assert.Equal(t, dto.ExecutionStatusSuspended, engine.Status())

		// The restored state carries everything projected before suspension.
		snap := engine.Snapshot()
		assert.Equal(t, "news", snap.GetString("category"))
		assert.Equal(t, "reviewed item", snap.GetString("draft"))

		final, err := engine.ProvideUserInput(ctx, "approve")
		require.NoError(t, err)
		assert.Equal(t, dto.ExecutionStatusCompleted, final.Status)
		assert.Equal(t, "publish", final.FinalNode)
		assert.Equal(t, true, final.State["published"])

		// The history survived the round trip in order: two projections,
		// the user input, then the final projection.
		h := engine.History()
		require.GreaterOrEqual(t, len(h), 4)
		assert.Equal(t, "classify", h[0].NodeID)
		assert.Equal(t, "review", h[1].NodeID)
		assert.Equal(t, state.OpUserInput, h[2].Operation)
		assert.Equal(t, "publish", h[3].NodeID)
	}
}
