package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(Event{Kind: KindStep, ExecutionID: "e1", NodeID: "n1"})

	got := <-a
	assert.Equal(t, KindStep, got.Kind)
	assert.Equal(t, "n1", got.NodeID)
	assert.False(t, got.Timestamp.IsZero())

	got = <-b
	assert.Equal(t, "e1", got.ExecutionID)
}

func TestBus_SlowSubscriberDropsEvents(t *testing.T) {
	bus := NewBus(1)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(Event{Kind: KindStep})
	bus.Publish(Event{Kind: KindCompleted}) // buffer full; dropped

	require.Len(t, ch, 1)
	assert.Equal(t, KindStep, (<-ch).Kind)
}

func TestBus_Close(t *testing.T) {
	bus := NewBus(0)
	ch := bus.Subscribe()
	bus.Close()

	_, open := <-ch
	assert.False(t, open)

	// Publish and repeated Close are no-ops after closing.
	bus.Publish(Event{Kind: KindStep})
	bus.Close()

	late := bus.Subscribe()
	_, open = <-late
	assert.False(t, open)
}
