package service

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"leadnavi/internal/domain"
	"leadnavi/internal/events"
	"leadnavi/internal/models"

	"github.com/rs/zerolog"
)

// EngagementService covers everything attached to a customer record by
// ongoing work: the chat transcripts, interactions, todos and the
// deal checklist.
type EngagementService struct {
	customers domain.CustomerStore
	publisher domain.EventPublisher
	logger    *zerolog.Logger
}

func NewEngagementService(customers domain.CustomerStore, publisher domain.EventPublisher, logger *zerolog.Logger) *EngagementService {
	return &EngagementService{
		customers: customers,
		publisher: publisher,
		logger:    logger,
	}
}

func newRecordID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// SaveChatHistory replaces the assistant transcript verbatim.
func (s *EngagementService) SaveChatHistory(token string, messages []models.ChatMessage) error {
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.ChatHistory = messages
		return nil
	})
	return err
}

// SaveDirectChat replaces the direct transcript. When the update grew
// the transcript and the newest turn is the customer's, the agent is
// notified through the message event.
func (s *EngagementService) SaveDirectChat(token string, messages []models.ChatMessage) error {
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	var notify *events.MessageEventPayload
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		if len(messages) > len(c.DirectChatHistory) {
			latest := messages[len(messages)-1]
			if latest.Role == "user" {
				notify = &events.MessageEventPayload{
					Token:   token,
					Name:    c.Name,
					Content: latest.Content,
				}
			}
		}
		c.DirectChatHistory = messages
		return nil
	})
	if err != nil {
		return err
	}

	if notify != nil {
		if err := s.publisher.PublishJSON(events.EventDirectMessageReceived, notify); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish direct message event")
		}
	}
	return nil
}

// DirectChat returns the direct transcript for the console.
func (s *EngagementService) DirectChat(token string) ([]models.ChatMessage, error) {
	c, err := s.customers.GetCustomer(token)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.DirectChatHistory == nil {
		return []models.ChatMessage{}, nil
	}
	return c.DirectChatHistory, nil
}

// AgentMessage appends an agent turn to the direct transcript and
// notifies the customer by email when one is on file.
func (s *EngagementService) AgentMessage(token, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	var notify *events.MessageEventPayload
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.DirectChatHistory = append(c.DirectChatHistory, models.ChatMessage{
			Role:      "agent",
			Content:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		if c.Email != "" {
			notify = &events.MessageEventPayload{
				Token:   token,
				Name:    c.Name,
				Email:   c.Email,
				Content: message,
			}
		}
		return nil
	})
	if err != nil {
		return ErrNotFound
	}

	if notify != nil {
		if err := s.publisher.PublishJSON(events.EventAgentMessageSent, notify); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish agent message event")
		}
	}
	return nil
}

// Interactions returns the touchpoint log, newest first.
func (s *EngagementService) Interactions(token string) ([]models.Interaction, error) {
	c, err := s.customers.GetCustomer(token)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.Interactions == nil {
		return []models.Interaction{}, nil
	}
	return c.Interactions, nil
}

// AddInteraction prepends a touchpoint so the newest stays first.
func (s *EngagementService) AddInteraction(token string, in models.Interaction) (*models.Interaction, error) {
	in.ID = newRecordID()
	in.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.Interactions = append([]models.Interaction{in}, c.Interactions...)
		return nil
	})
	if err != nil {
		return nil, ErrNotFound
	}
	return &in, nil
}

// DeleteInteraction removes one touchpoint by id.
func (s *EngagementService) DeleteInteraction(token, id string) error {
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		kept := c.Interactions[:0]
		for _, i := range c.Interactions {
			if i.ID != id {
				kept = append(kept, i)
			}
		}
		c.Interactions = kept
		return nil
	})
	if err != nil {
		return ErrNotFound
	}
	return nil
}

// Todos returns the action items.
func (s *EngagementService) Todos(token string) ([]models.Todo, error) {
	c, err := s.customers.GetCustomer(token)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.Todos == nil {
		return []models.Todo{}, nil
	}
	return c.Todos, nil
}

// AddTodo appends an action item.
func (s *EngagementService) AddTodo(token string, todo models.Todo) (*models.Todo, error) {
	todo.ID = newRecordID()
	todo.Done = false
	todo.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.Todos = append(c.Todos, todo)
		return nil
	})
	if err != nil {
		return nil, ErrNotFound
	}
	return &todo, nil
}

// TodoPatch carries the updatable fields of an action item. Nil fields
// stay untouched.
type TodoPatch struct {
	Text     *string `json:"text"`
	Priority *string `json:"priority"`
	Reason   *string `json:"reason"`
	Done     *bool   `json:"done"`
	Deadline *string `json:"deadline"`
}

// UpdateTodo applies a patch to one action item.
func (s *EngagementService) UpdateTodo(token, id string, patch TodoPatch) (*models.Todo, error) {
	var updated *models.Todo
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		for i := range c.Todos {
			if c.Todos[i].ID != id {
				continue
			}
			t := &c.Todos[i]
			if patch.Text != nil {
				t.Text = *patch.Text
			}
			if patch.Priority != nil {
				t.Priority = *patch.Priority
			}
			if patch.Reason != nil {
				t.Reason = *patch.Reason
			}
			if patch.Done != nil {
				t.Done = *patch.Done
			}
			if patch.Deadline != nil {
				t.Deadline = *patch.Deadline
			}
			copied := *t
			updated = &copied
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTodo removes one action item by id.
func (s *EngagementService) DeleteTodo(token, id string) error {
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		kept := c.Todos[:0]
		for _, t := range c.Todos {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		c.Todos = kept
		return nil
	})
	if err != nil {
		return ErrNotFound
	}
	return nil
}

// Checklist returns the deal checklist, materializing it from the
// template on first access.
func (s *EngagementService) Checklist(token string) ([]models.ChecklistPhase, error) {
	c, err := s.customers.GetCustomer(token)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.Checklist != nil {
		return c.Checklist, nil
	}

	updated, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		if c.Checklist == nil {
			c.Checklist = models.NewChecklist()
		}
		return nil
	})
	if err != nil {
		return nil, ErrNotFound
	}
	return updated.Checklist, nil
}

// PutChecklist replaces the checklist verbatim.
func (s *EngagementService) PutChecklist(token string, checklist []models.ChecklistPhase) error {
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.Checklist = checklist
		return nil
	})
	if err != nil {
		return ErrNotFound
	}
	return nil
}

// ApplyExtracted merges extractor output into the profile, writing only
// fields that are currently empty or sentinel so confirmed data is
// never overwritten.
func (s *EngagementService) ApplyExtracted(token string, fields map[string]string) error {
	if fields == nil {
		return ErrInvalidFields
	}
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		for key, value := range fields {
			if key == "age" {
				if c.Age == 0 {
					c.Age = leadingInt(value)
				}
				continue
			}
			current, ok := models.Field(c, key)
			if !ok || models.IsFilled(current) {
				continue
			}
			models.SetField(c, key, value)
		}
		return nil
	})
	if err != nil {
		return ErrNotFound
	}
	return nil
}

// leadingInt parses the leading digits of strings like "32歳".
func leadingInt(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		seen = true
		n = n*10 + int(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}
