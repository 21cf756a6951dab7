package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventCallCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventCallCreated, ActorID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].ActorID)

	// Unrelated event types are not delivered.
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCoachingFlagged}))
	assert.Len(t, got, 1)
}

func TestInMemoryDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	var second bool
	d.Subscribe(EventEvaluationSubmitted, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventEvaluationSubmitted, func(context.Context, Event) error {
		second = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventEvaluationSubmitted})
	require.NoError(t, err)
	assert.True(t, second)
}

func TestInMemoryDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventCallStatusChanged}))
}
