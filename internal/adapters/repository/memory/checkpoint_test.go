package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stategraph/stategraph/internal/core/checkpoint"
)

func testCheckpoint(id, graphName, execID string, ts time.Time) *checkpoint.Checkpoint {
	return &checkpoint.Checkpoint{
		ID:          id,
		GraphName:   graphName,
		ExecutionID: execID,
		Status:      "suspended",
		CurrentNode: "review",
		PendingEdge: 0,
		State:       map[string]any{"draft": "pending"},
		Timestamp:   ts,
		Version:     "1.0",
	}
}

func TestSaver_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := DefaultSaver()
	t.Cleanup(s.Close)

	cp := testCheckpoint("cp-1", "g", "e", time.Now())
	require.NoError(t, s.Save(ctx, cp))

	loaded, err := s.Load(ctx, "cp-1")
	require.NoError(t, err)
	assert.Equal(t, "suspended", loaded.Status)
	assert.Equal(t, "review", loaded.CurrentNode)
	assert.Equal(t, "pending", loaded.State["draft"])

	// Loads return independent copies.
	loaded.State["draft"] = "tampered"
	again, err := s.Load(ctx, "cp-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", again.State["draft"])
}

func TestSaver_Validation(t *testing.T) {
	ctx := context.Background()
	s := DefaultSaver()
	t.Cleanup(s.Close)

	assert.Error(t, s.Save(ctx, nil))

	cp := testCheckpoint("", "g", "e", time.Now())
	assert.ErrorIs(t, s.Save(ctx, cp), checkpoint.ErrInvalidCheckpointID)

	cp = testCheckpoint("cp-1", "g", "e", time.Now())
	cp.State = nil
	assert.ErrorIs(t, s.Save(ctx, cp), checkpoint.ErrNilState)

	_, err := s.Load(ctx, "nonexistent")
	assert.ErrorIs(t, err, checkpoint.ErrCheckpointNotFound)
}

func TestSaver_List(t *testing.T) {
	ctx := context.Background()
	s := DefaultSaver()
	t.Cleanup(s.Close)

	base := time.Now()
	require.NoError(t, s.Save(ctx, testCheckpoint("cp-1", "g1", "e1", base)))
	require.NoError(t, s.Save(ctx, testCheckpoint("cp-2", "g1", "e1", base.Add(time.Minute))))
	require.NoError(t, s.Save(ctx, testCheckpoint("cp-3", "g2", "e2", base.Add(2*time.Minute))))

	t.Run("by execution", func(t *testing.T) {
		cps, err := s.List(ctx, checkpoint.Filter{ExecutionID: "e1"})
		require.NoError(t, err)
		assert.Len(t, cps, 2)
	})

	t.Run("by graph", func(t *testing.T) {
		cps, err := s.List(ctx, checkpoint.Filter{GraphName: "g2"})
		require.NoError(t, err)
		require.Len(t, cps, 1)
		assert.Equal(t, "cp-3", cps[0].ID)
	})

	t.Run("by time window", func(t *testing.T) {
		since := base.Add(30 * time.Second)
		before := base.Add(90 * time.Second)
		cps, err := s.List(ctx, checkpoint.Filter{Since: &since, Before: &before})
		require.NoError(t, err)
		require.Len(t, cps, 1)
		assert.Equal(t, "cp-2", cps[0].ID)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := s.List(ctx, checkpoint.Filter{Limit: -1})
		assert.ErrorIs(t, err, checkpoint.ErrInvalidLimit)
	})
}

func TestSaver_Delete(t *testing.T) {
	ctx := context.Background()
	s := DefaultSaver()
	t.Cleanup(s.Close)

	require.NoError(t, s.Save(ctx, testCheckpoint("cp-1", "g", "e", time.Now())))
	require.NoError(t, s.Delete(ctx, "cp-1"))

	_, err := s.Load(ctx, "cp-1")
	assert.ErrorIs(t, err, checkpoint.ErrCheckpointNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "cp-1"), checkpoint.ErrCheckpointNotFound)
}

func TestSaver_TTL(t *testing.T) {
	ctx := context.Background()
	s := NewSaver(Config{TTL: 20 * time.Millisecond, CleanupInterval: time.Hour})
	t.Cleanup(s.Close)

	require.NoError(t, s.Save(ctx, testCheckpoint("cp-1", "g", "e", time.Now())))
	time.Sleep(40 * time.Millisecond)

	_, err := s.Load(ctx, "cp-1")
	assert.ErrorIs(t, err, checkpoint.ErrCheckpointNotFound)

	cps, err := s.List(ctx, checkpoint.Filter{ExecutionID: "e"})
	require.NoError(t, err)
	assert.Empty(t, cps)
}
