package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSONReachesSubscriber(t *testing.T) {
	bus := NewEventBus()

	var received MessageEventPayload
	bus.Subscribe(EventDirectMessageReceived, func(event *Event) error {
		return json.Unmarshal(event.Payload, &received)
	})

	err := bus.PublishJSON(EventDirectMessageReceived, MessageEventPayload{
		Token:   "tok1",
		Name:    "山田",
		Content: "こんにちは",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok1", received.Token)
	assert.Equal(t, "こんにちは", received.Content)
}

func TestPublishOnlyMatchingType(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	bus.Subscribe(EventBroadcastSent, func(event *Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventCustomerRegistered, CustomerEventPayload{Token: "t"}))
	assert.Zero(t, calls)

	require.NoError(t, bus.PublishJSON(EventBroadcastSent, BroadcastEventPayload{BroadcastID: "b"}))
	assert.Equal(t, 1, calls)
}

func TestMultipleSubscribersAllRun(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventAgentMessageSent, func(event *Event) error {
			calls++
			return nil
		})
	}

	require.NoError(t, bus.PublishJSON(EventAgentMessageSent, MessageEventPayload{Token: "t"}))
	assert.Equal(t, 3, calls)
}

func TestNilBusPublishJSONIsNoop(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBroadcastSent, nil))
}
