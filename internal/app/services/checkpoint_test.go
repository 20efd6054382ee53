package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stategraph/stategraph/internal/adapters/repository/memory"
	"github.com/stategraph/stategraph/internal/core/checkpoint"
)

func newCheckpoint(execID string, ts time.Time) *checkpoint.Checkpoint {
	return &checkpoint.Checkpoint{
		GraphName:   "g",
		ExecutionID: execID,
		Status:      "running",
		CurrentNode: "a",
		PendingEdge: -1,
		State:       map[string]any{"k": "v"},
		Timestamp:   ts,
	}
}

func TestCheckpointService(t *testing.T) {
	ctx := context.Background()
	saver := memory.DefaultSaver()
	t.Cleanup(saver.Close)
	svc := NewCheckpointService(saver)

	t.Run("record assigns identity and persists", func(t *testing.T) {
		id, err := svc.Record(ctx, newCheckpoint("exec-1", time.Now()))
		require.NoError(t, err)
		require.NotEmpty(t, id)

		cp, err := svc.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, cp.ID)
		assert.Equal(t, "1.0", cp.Version)
		assert.Equal(t, "stategraph", cp.Metadata.CreatedBy)
	})

	t.Run("latest returns the newest checkpoint of an execution", func(t *testing.T) {
		base := time.Now()
		_, err := svc.Record(ctx, newCheckpoint("exec-2", base))
		require.NoError(t, err)
		_, err = svc.Record(ctx, newCheckpoint("exec-2", base.Add(time.Minute)))
		require.NoError(t, err)
		older := newCheckpoint("exec-2", base.Add(-time.Minute))
		_, err = svc.Record(ctx, older)
		require.NoError(t, err)

		latest, err := svc.Latest(ctx, "exec-2")
		require.NoError(t, err)
		assert.WithinDuration(t, base.Add(time.Minute), latest.Timestamp, time.Second)
	})

	t.Run("latest of an unknown execution is not found", func(t *testing.T) {
		_, err := svc.Latest(ctx, "exec-missing")
		assert.ErrorIs(t, err, checkpoint.ErrCheckpointNotFound)
	})
}
