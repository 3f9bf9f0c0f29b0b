package service

import (
	"strings"
	"time"

	"leadnavi/internal/domain"
	"leadnavi/internal/events"
	"leadnavi/internal/models"
	"leadnavi/internal/segment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BroadcastService delivers one message to a tag-filtered audience:
// into each recipient's direct transcript, into the append-only log,
// and out by email through the broadcast event.
type BroadcastService struct {
	customers  domain.CustomerStore
	broadcasts domain.BroadcastStore
	publisher  domain.EventPublisher
	logger     *zerolog.Logger
}

func NewBroadcastService(customers domain.CustomerStore, broadcasts domain.BroadcastStore, publisher domain.EventPublisher, logger *zerolog.Logger) *BroadcastService {
	return &BroadcastService{
		customers:  customers,
		broadcasts: broadcasts,
		publisher:  publisher,
		logger:     logger,
	}
}

// History returns past deliveries, newest first.
func (s *BroadcastService) History() []models.Broadcast {
	all := s.broadcasts.Broadcasts()
	out := make([]models.Broadcast, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	return out
}

// Preview resolves the audience without sending anything, so the
// console can show exactly who a send would reach.
func (s *BroadcastService) Preview(filterType string, filterTags []string) ([]*models.Customer, error) {
	return segment.Select(s.customers.AllCustomers(), filterType, filterTags)
}

// Send delivers the message to every matched recipient. The agent turn
// lands in each direct transcript tagged with the broadcast id, the
// delivery is logged, and email fan-out happens via the event bus.
func (s *BroadcastService) Send(message, filterType string, filterTags []string) (*models.Broadcast, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	matched, err := segment.Select(s.customers.AllCustomers(), filterType, filterTags)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, ErrNoRecipients
	}

	broadcastID := "bcast_" + uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	recipients := make(map[string]bool, len(matched))
	tokens := make([]string, 0, len(matched))
	eventRecipients := make([]events.BroadcastRecipient, 0, len(matched))
	for _, c := range matched {
		recipients[c.Token] = true
		tokens = append(tokens, c.Token)
		eventRecipients = append(eventRecipients, events.BroadcastRecipient{
			Token: c.Token,
			Name:  c.Name,
			Email: c.Email,
		})
	}

	err = s.customers.UpdateAllCustomers(func(c *models.Customer) bool {
		if !recipients[c.Token] {
			return false
		}
		c.DirectChatHistory = append(c.DirectChatHistory, models.ChatMessage{
			Role:        "agent",
			Content:     message,
			Timestamp:   now,
			BroadcastID: broadcastID,
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	if filterType == "" {
		filterType = models.FilterAll
	}
	if filterTags == nil {
		filterTags = []string{}
	}
	broadcast := models.Broadcast{
		ID:              broadcastID,
		SentAt:          now,
		Message:         message,
		FilterType:      filterType,
		FilterTags:      filterTags,
		RecipientCount:  len(matched),
		RecipientTokens: tokens,
	}
	if err := s.broadcasts.AppendBroadcast(broadcast); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishJSON(events.EventBroadcastSent, events.BroadcastEventPayload{
		BroadcastID: broadcastID,
		Message:     message,
		Recipients:  eventRecipients,
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish broadcast event")
	}

	s.logger.Info().Str("broadcast_id", broadcastID).Int("recipients", len(matched)).Msg("Broadcast sent")
	return &broadcast, nil
}
