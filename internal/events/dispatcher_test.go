package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfrp-tup/helpline/internal/domain"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var got []string

	dispatcher.Subscribe(EventRequestSubmitted, func(ctx context.Context, event Event) error {
		got = append(got, "first")
		return nil
	})
	dispatcher.Subscribe(EventRequestSubmitted, func(ctx context.Context, event Event) error {
		got = append(got, "second")
		return nil
	})
	dispatcher.Subscribe(EventRequestAssigned, func(ctx context.Context, event Event) error {
		got = append(got, "other")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		Type:        EventRequestSubmitted,
		RequestID:   1,
		RequestType: domain.RequestTypeComplaint,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var reached bool

	dispatcher.Subscribe(EventRequestStatusChanged, func(ctx context.Context, event Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventRequestStatusChanged, func(ctx context.Context, event Event) error {
		reached = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventRequestStatusChanged})
	require.NoError(t, err)
	assert.True(t, reached)
}
