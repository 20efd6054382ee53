package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/internal/core/state"
)

func buildFanout(t *testing.T, predicates ...graph.Predicate) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder("fanout")
	_, err := b.AddNode("src", func(_ context.Context, _ map[string]any) (any, error) {
		return map[string]any{}, nil
	})
	require.NoError(t, err)
	for i, p := range predicates {
		id := string(rune('a' + i))
		_, err := b.AddNode(id, func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{}, nil
		})
		require.NoError(t, err)
		_, err = b.AddEdge("src", id, p)
		require.NoError(t, err)
	}
	require.NoError(t, b.SetEntryPoint("src"))
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestSnapshotEvaluator_FirstTrue(t *testing.T) {
	always := func(state.Snapshot) bool { return true }
	never := func(state.Snapshot) bool { return false }

	t.Run("earliest registered edge wins when several hold", func(t *testing.T) {
		g := buildFanout(t, always, always, always)
		ev := NewSnapshotEvaluator()

		next := ev.FirstTrue(g.EdgesFrom("src"), state.Snapshot{})
		require.NotNil(t, next)
		assert.Equal(t, "a", next.Target())

		// Repeated evaluation of the same snapshot is stable.
		for i := 0; i < 10; i++ {
			assert.Equal(t, "a", ev.FirstTrue(g.EdgesFrom("src"), state.Snapshot{}).Target())
		}
	})

	t.Run("skips false conditions in order", func(t *testing.T) {
		g := buildFanout(t, never, never, always)
		ev := NewSnapshotEvaluator()
		next := ev.FirstTrue(g.EdgesFrom("src"), state.Snapshot{})
		require.NotNil(t, next)
		assert.Equal(t, "c", next.Target())
	})

	t.Run("returns nil when no condition holds", func(t *testing.T) {
		g := buildFanout(t, never, never)
		ev := NewSnapshotEvaluator()
		assert.Nil(t, ev.FirstTrue(g.EdgesFrom("src"), state.Snapshot{}))
	})

	t.Run("predicates observe the snapshot they are given", func(t *testing.T) {
		g := buildFanout(t, func(s state.Snapshot) bool {
			return s.GetString("route") == "a"
		}, always)
		ev := NewSnapshotEvaluator()

		assert.Equal(t, "a", ev.FirstTrue(g.EdgesFrom("src"), state.Snapshot{"route": "a"}).Target())
		assert.Equal(t, "b", ev.FirstTrue(g.EdgesFrom("src"), state.Snapshot{"route": "x"}).Target())
	})
}
