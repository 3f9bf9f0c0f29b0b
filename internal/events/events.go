package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventCustomerRegistered    = "customer_registered"
	EventDirectMessageReceived = "direct_message_received"
	EventAgentMessageSent      = "agent_message_sent"
	EventBroadcastSent         = "broadcast_sent"
)

// CustomerEventPayload is the registration snapshot mail consumers need.
type CustomerEventPayload struct {
	Token           string    `json:"token"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	BirthYear       string    `json:"birth_year,omitempty"`
	BirthMonth      string    `json:"birth_month,omitempty"`
	Family          string    `json:"family,omitempty"`
	HouseholdIncome string    `json:"household_income,omitempty"`
	PropertyType    string    `json:"property_type,omitempty"`
	Purpose         string    `json:"purpose,omitempty"`
	SearchReason    string    `json:"search_reason,omitempty"`
	Area            string    `json:"area,omitempty"`
	Budget          string    `json:"budget,omitempty"`
	FreeComment     string    `json:"free_comment,omitempty"`
	Articles        []Article `json:"articles,omitempty"`
}

// Article is a recommended reading link carried in the welcome mail.
type Article struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MessageEventPayload describes one direct-chat message either direction.
type MessageEventPayload struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Content string `json:"content"`
}

// BroadcastRecipient is one addressee of a broadcast delivery.
type BroadcastRecipient struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// BroadcastEventPayload describes a broadcast to fan out over email.
type BroadcastEventPayload struct {
	BroadcastID string               `json:"broadcast_id"`
	Message     string               `json:"message"`
	Recipients  []BroadcastRecipient `json:"recipients"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
