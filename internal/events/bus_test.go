package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

func receiveOne(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{}, 4)
	defer cleanup()

	sessionID := types.NewID()
	require.NoError(t, bus.Publish(context.Background(), New(EventStepChanged, sessionID, "itinerary")))

	e := receiveOne(t, ch)
	assert.Equal(t, EventStepChanged, e.Type)
	assert.Equal(t, sessionID, e.SessionID)
	assert.Equal(t, "itinerary", e.Payload)
	assert.False(t, e.Timestamp.IsZero())
}

func TestBus_FilterByType(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{
		Types: []EventType{EventImageHydrated},
	}, 4)
	defer cleanup()

	id := types.NewID()
	require.NoError(t, bus.Publish(context.Background(), New(EventStepChanged, id, nil)))
	require.NoError(t, bus.Publish(context.Background(), New(EventImageHydrated, id, 3)))

	e := receiveOne(t, ch)
	assert.Equal(t, EventImageHydrated, e.Type)
	assert.Len(t, ch, 0)
}

func TestBus_FilterBySession(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	mine := types.NewID()
	other := types.NewID()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{SessionID: mine}, 4)
	defer cleanup()

	require.NoError(t, bus.Publish(context.Background(), New(EventSlotReplaced, other, nil)))
	require.NoError(t, bus.Publish(context.Background(), New(EventSlotReplaced, mine, nil)))

	e := receiveOne(t, ch)
	assert.Equal(t, mine, e.SessionID)
	assert.Len(t, ch, 0)
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	var mu sync.Mutex
	dropped := 0

	bus := NewBus(WithDropHandler(func(string, Event) {
		mu.Lock()
		dropped++
		mu.Unlock()
	}))
	defer bus.Close()

	_, cleanup := bus.Subscribe(context.Background(), Filter{}, 1)
	defer cleanup()

	id := types.NewID()
	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), New(EventImageHydrated, id, i)))
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 4, dropped)
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	ch, cleanup := bus.Subscribe(context.Background(), Filter{}, 1)
	defer cleanup()

	require.NoError(t, bus.Close())

	_, open := <-ch
	assert.False(t, open)

	err := bus.Publish(context.Background(), New(EventStepChanged, types.NewID(), nil))
	assert.Error(t, err)

	// Closing twice is fine.
	assert.NoError(t, bus.Close())
}

func TestFilter_Matches(t *testing.T) {
	id := types.NewID()
	e := New(EventSlotDeleted, id, nil)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"type match", Filter{Types: []EventType{EventSlotDeleted}}, true},
		{"type mismatch", Filter{Types: []EventType{EventStepChanged}}, false},
		{"session match", Filter{SessionID: id}, true},
		{"session mismatch", Filter{SessionID: types.NewID()}, false},
		{"both match", Filter{Types: []EventType{EventSlotDeleted}, SessionID: id}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(e))
		})
	}
}
