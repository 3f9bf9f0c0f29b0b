package service

import (
	"context"
	"time"

	"leadnavi/internal/ai"
	"leadnavi/internal/config"
	"leadnavi/internal/domain"
	"leadnavi/internal/models"

	"github.com/rs/zerolog"
)

// Advisor is the full AI surface the chat service needs: the three
// conversational modes plus the structured console helpers.
type Advisor interface {
	domain.ReplyGenerator
	SuggestTodos(ctx context.Context, customer *models.Customer) ([]ai.TodoSuggestion, error)
	AnalyzeInteraction(ctx context.Context, customer *models.Customer, content string) (*ai.InteractionAnalysis, error)
	ExtractFromChat(ctx context.Context, customer *models.Customer) (map[string]string, error)
}

// ChatService drives the AI conversations. A nil advisor means the API
// key is absent; every operation then fails with ai.ErrNotConfigured.
type ChatService struct {
	customers domain.CustomerStore
	advisor   Advisor
	state     domain.StateRepository
	config    *config.Config
	logger    *zerolog.Logger
}

func NewChatService(customers domain.CustomerStore, advisor Advisor, state domain.StateRepository, cfg *config.Config, logger *zerolog.Logger) *ChatService {
	return &ChatService{
		customers: customers,
		advisor:   advisor,
		state:     state,
		config:    cfg,
		logger:    logger,
	}
}

// Chat produces the assistant's next turn for a customer conversation
// and persists the grown transcript. Blocked and withdrawn accounts are
// refused, and each token is held to the configured message window.
func (s *ChatService) Chat(ctx context.Context, token string, messages []models.ChatMessage) (string, error) {
	if s.advisor == nil {
		return "", ai.ErrNotConfigured
	}
	if len(messages) == 0 {
		return "", ErrEmptyMessage
	}

	customer, err := s.customers.GetCustomer(token)
	if err != nil {
		return "", ErrNotFound
	}
	switch customer.EffectiveStatus() {
	case models.StatusBlocked, models.StatusWithdrawn:
		return "", ErrAccessDenied
	}

	window := time.Duration(s.config.Chat.RateLimitWindow) * time.Second
	allowed, err := s.state.CheckRateLimit(ctx, token, s.config.Chat.RateLimitMessages, window)
	if err != nil {
		s.logger.Error().Err(err).Msg("Rate limit check failed, allowing message")
	} else if !allowed {
		return "", ErrRateLimited
	}

	reply, err := s.advisor.GenerateReply(ctx, customer, messages)
	if err != nil {
		s.logger.Error().Err(err).Str("token", shortToken(token)).Msg("Assistant reply failed")
		return "", err
	}

	transcript := append(append([]models.ChatMessage{}, messages...), models.ChatMessage{
		Role:    "assistant",
		Content: reply,
	})
	if _, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.ChatHistory = transcript
		return nil
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist chat transcript")
	}

	return reply, nil
}

// AgentConsult answers the agent's question about a customer and keeps
// the consult transcript on the record.
func (s *ChatService) AgentConsult(ctx context.Context, token string, messages []models.ChatMessage) (string, error) {
	if s.advisor == nil {
		return "", ai.ErrNotConfigured
	}
	customer, err := s.customers.GetCustomer(token)
	if err != nil {
		return "", ErrNotFound
	}

	reply, err := s.advisor.AgentConsult(ctx, customer, messages)
	if err != nil {
		return "", err
	}

	transcript := append(append([]models.ChatMessage{}, messages...), models.ChatMessage{
		Role:    "assistant",
		Content: reply,
	})
	if _, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.AgentChatHistory = transcript
		return nil
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist agent consult transcript")
	}
	return reply, nil
}

// CustomerPreview simulates the customer assistant for the console
// without touching the customer-visible transcript.
func (s *ChatService) CustomerPreview(ctx context.Context, token string, messages []models.ChatMessage) (string, error) {
	if s.advisor == nil {
		return "", ai.ErrNotConfigured
	}
	customer, err := s.customers.GetCustomer(token)
	if err != nil {
		return "", ErrNotFound
	}
	return s.advisor.CustomerPreview(ctx, customer, messages)
}

// SuggestTodos proposes action items for the record.
func (s *ChatService) SuggestTodos(ctx context.Context, token string) ([]ai.TodoSuggestion, error) {
	if s.advisor == nil {
		return nil, ai.ErrNotConfigured
	}
	customer, err := s.customers.GetCustomer(token)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.advisor.SuggestTodos(ctx, customer)
}

// AnalyzeInteraction reads one touchpoint against the full record.
func (s *ChatService) AnalyzeInteraction(ctx context.Context, token, content string) (*ai.InteractionAnalysis, error) {
	if s.advisor == nil {
		return nil, ai.ErrNotConfigured
	}
	customer, err := s.customers.GetCustomer(token)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.advisor.AnalyzeInteraction(ctx, customer, content)
}

// ExtractFromChat proposes profile values from the assistant transcript.
func (s *ChatService) ExtractFromChat(ctx context.Context, token string) (map[string]string, error) {
	if s.advisor == nil {
		return nil, ai.ErrNotConfigured
	}
	customer, err := s.customers.GetCustomer(token)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.advisor.ExtractFromChat(ctx, customer)
}
