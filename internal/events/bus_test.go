package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRespectsFilters(t *testing.T) {
	bus := NewBus()

	mine := bus.Subscribe(4, func(ev Event) bool { return ev.Payload == "alice" })
	defer mine.Close()
	other := bus.Subscribe(4, func(ev Event) bool { return ev.Payload == "bob" })
	defer other.Close()
	all := bus.Subscribe(4, nil)
	defer all.Close()

	bus.Publish(Event{Name: MessageCreated, Payload: "alice"})

	require.Len(t, mine.C, 1)
	assert.Equal(t, MessageCreated, (<-mine.C).Name)
	assert.Len(t, other.C, 0)
	assert.Len(t, all.C, 1)
}

func TestSlowSubscriberMissesEvents(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1, nil)
	defer sub.Close()

	bus.Publish(Event{Name: UserOnline, Payload: 1})
	bus.Publish(Event{Name: UserOnline, Payload: 2})

	// Second event is dropped, never queued or replayed.
	require.Len(t, sub.C, 1)
	assert.Equal(t, 1, (<-sub.C).Payload)
	assert.Len(t, sub.C, 0)
}

func TestCloseStopsDelivery(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1, nil)
	sub.Close()

	bus.Publish(Event{Name: NotificationChanged})

	_, open := <-sub.C
	assert.False(t, open)
}
