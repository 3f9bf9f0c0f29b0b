package domain

import (
	"context"
	"time"

	"leadnavi/internal/models"
)

// CustomerStore is the persistence surface for customer records.
// Every mutation goes through Update or UpdateAll so concurrent writers
// cannot clobber each other's changes.
type CustomerStore interface {
	GetCustomer(token string) (*models.Customer, error)
	PutCustomer(c *models.Customer) error
	DeleteCustomer(token string) error
	AllCustomers() []*models.Customer
	UpdateCustomer(token string, fn func(*models.Customer) error) (*models.Customer, error)
	UpdateAllCustomers(fn func(*models.Customer) bool) error
}

// TagStore is the persistence surface for the shared tag catalog.
type TagStore interface {
	Tags() []models.Tag
	UpdateTags(fn func(tags []models.Tag) ([]models.Tag, error)) error
}

// BroadcastStore is the append-only broadcast log.
type BroadcastStore interface {
	Broadcasts() []models.Broadcast
	AppendBroadcast(b models.Broadcast) error
}

// SettingsStore holds the operator settings, notably the console secret.
type SettingsStore interface {
	AdminPassword() string
	SetAdminPassword(password string) error
}

// Notifier delivers a notification email. Implementations are
// best-effort: delivery failures are logged, never returned to the
// action that triggered them.
type Notifier interface {
	Notify(to, subject, htmlBody string)
}

// ReplyGenerator produces AI replies for the customer chat and the
// console helpers.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, customer *models.Customer, messages []models.ChatMessage) (string, error)
	AgentConsult(ctx context.Context, customer *models.Customer, messages []models.ChatMessage) (string, error)
	CustomerPreview(ctx context.Context, customer *models.Customer, messages []models.ChatMessage) (string, error)
}

// EventPublisher decouples services from their notification side effects.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// StateRepository tracks per-token chat flow control. The redis-backed
// implementation is primary; a memory fallback takes over on failure.
type StateRepository interface {
	CheckRateLimit(ctx context.Context, token string, limit int, window time.Duration) (bool, error)
}
