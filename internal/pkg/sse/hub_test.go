package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToRecipientOnly(t *testing.T) {
	hub := NewHub()
	mine, cleanupMine := hub.Subscribe(1)
	defer cleanupMine()
	other, cleanupOther := hub.Subscribe(2)
	defer cleanupOther()

	hub.Publish(1, Event{RecipientID: 1, Event: "notification", Data: "hello"})

	select {
	case ev := <-mine:
		assert.Equal(t, "hello", ev.Data)
	default:
		t.Fatal("expected an event for recipient 1")
	}
	select {
	case ev := <-other:
		t.Fatalf("recipient 2 got %v", ev)
	default:
	}
}

func TestHub_FullBufferDropsEvents(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(1)
	defer cleanup()

	for i := 0; i < hub.buffer+5; i++ {
		hub.Publish(1, Event{Event: "notification", Data: i})
	}
	assert.Len(t, ch, hub.buffer)
}

func TestHub_CleanupClosesAndForgets(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(1)
	require.Equal(t, 1, hub.SubscriberCount(1))

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount(1))
	hub.Publish(1, Event{Event: "notification"})
}
