package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"leadnavi/internal/ai"
	"leadnavi/internal/config"
	"leadnavi/internal/domain"
	"leadnavi/internal/events"
	"leadnavi/internal/models"
	"leadnavi/internal/store"

	"github.com/rs/zerolog"
)

// ArticlePicker selects welcome-mail reading for a fresh registration.
type ArticlePicker interface {
	RecommendArticles(ctx context.Context, customer *models.Customer) []ai.Article
}

// CustomerService owns the customer lifecycle: registration, login,
// self-service profile, lifecycle transitions and the admin record
// operations.
type CustomerService struct {
	customers domain.CustomerStore
	tags      *TagService
	publisher domain.EventPublisher
	picker    ArticlePicker
	config    *config.Config
	logger    *zerolog.Logger
}

func NewCustomerService(customers domain.CustomerStore, tags *TagService, publisher domain.EventPublisher, picker ArticlePicker, cfg *config.Config, logger *zerolog.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		tags:      tags,
		publisher: publisher,
		picker:    picker,
		config:    cfg,
		logger:    logger,
	}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func newToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in no state to
		// accept registrations.
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// Register creates a record under a fresh token, assigns auto-tags for
// prefecture and property type, grades the initial stage from profile
// completeness and publishes the registration event.
func (s *CustomerService) Register(ctx context.Context, c *models.Customer, password string) (*models.Customer, error) {
	c.Token = newToken()
	if password != "" {
		c.PasswordHash = hashPassword(password)
	}
	c.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	c.ChatHistory = []models.ChatMessage{}
	c.DirectChatHistory = []models.ChatMessage{}

	c.Tags = s.tags.AutoTags(c.Prefecture, c.PropertyType)

	c.Stage = models.StageMin
	if models.CompleteEnoughForStage2(c) {
		c.Stage = 2
		filled, total := models.ProfileCompleteness(c)
		s.logger.Info().Int("filled", filled).Int("total", total).Msg("Initial stage graded from profile completeness")
	}

	if err := s.customers.PutCustomer(c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("name", c.Name).Str("email", c.Email).Str("token", shortToken(c.Token)).Msg("Customer registered")

	payload := events.CustomerEventPayload{
		Token:           c.Token,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		BirthYear:       c.BirthYear,
		BirthMonth:      c.BirthMonth,
		Family:          c.Family,
		HouseholdIncome: c.HouseholdIncome,
		PropertyType:    c.PropertyType,
		Purpose:         c.Purpose,
		SearchReason:    c.SearchReason,
		Area:            c.Area,
		Budget:          c.Budget,
		FreeComment:     c.FreeComment,
	}
	if c.Email != "" && s.picker != nil {
		for _, a := range s.picker.RecommendArticles(ctx, c) {
			payload.Articles = append(payload.Articles, events.Article{Title: a.Title, URL: a.URL})
		}
	}
	if err := s.publisher.PublishJSON(events.EventCustomerRegistered, payload); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish registration event")
	}

	return c, nil
}

// Login authenticates by email. Withdrawn accounts are invisible;
// blocked ones are refused explicitly. A record without a password hash
// is a legacy account: login succeeds and the caller is told to prompt
// for a password.
func (s *CustomerService) Login(email, password string) (*models.Customer, bool, error) {
	if email == "" {
		return nil, false, ErrEmailRequired
	}

	var match *models.Customer
	for _, c := range s.customers.AllCustomers() {
		if c.Email != "" && strings.EqualFold(c.Email, email) && c.EffectiveStatus() != models.StatusWithdrawn {
			match = c
			break
		}
	}
	if match == nil {
		return nil, false, ErrInvalidCredentials
	}
	if match.EffectiveStatus() == models.StatusBlocked {
		return nil, false, ErrBlocked
	}

	if match.PasswordHash == "" {
		return match, true, nil
	}
	if password == "" || hashPassword(password) != match.PasswordHash {
		return nil, false, ErrInvalidCredentials
	}
	return match, false, nil
}

// Session resolves a stored token back to the account. Withdrawn
// records behave as if they never existed; blocked ones are reported
// as blocked.
func (s *CustomerService) Session(token string) (*models.Customer, error) {
	c, err := s.customers.GetCustomer(token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	switch c.EffectiveStatus() {
	case models.StatusWithdrawn:
		return nil, ErrNotFound
	case models.StatusBlocked:
		return nil, ErrBlocked
	}
	return c, nil
}

// Profile returns the self-service view of the record.
func (s *CustomerService) Profile(token string) (*models.Customer, error) {
	return s.activeCustomer(token)
}

// UpdateProfile applies customer-editable fields, recomputes the age
// when the birth date changed and re-grades the stage. Returns the
// changed keys.
func (s *CustomerService) UpdateProfile(token string, updates map[string]string) (*models.Customer, []string, error) {
	if _, err := s.activeCustomer(token); err != nil {
		return nil, nil, err
	}

	var changed []string
	updated, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		for _, key := range models.CustomerEditableFields {
			value, ok := updates[key]
			if !ok {
				continue
			}
			if current, _ := models.Field(c, key); current != value {
				models.SetField(c, key, value)
				changed = append(changed, key)
			}
		}

		if y, okY := updates["birthYear"]; okY && y != "" {
			if m, okM := updates["birthMonth"]; okM && m != "" {
				c.Age = ageFromBirth(y, m, time.Now())
			}
		}

		if c.Stage < 2 && models.CompleteEnoughForStage2(c) {
			c.Stage = 2
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, changed, nil
}

func ageFromBirth(yearStr, monthStr string, now time.Time) int {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return 0
	}
	age := now.Year() - year
	if int(now.Month()) < month {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// AdvanceStage moves the customer exactly one stage forward, capped at
// the final stage. Anything else is refused.
func (s *CustomerService) AdvanceStage(token string, stage int) (int, error) {
	if _, err := s.activeCustomer(token); err != nil {
		return 0, err
	}

	var result int
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		current := c.EffectiveStage()
		if stage <= current || stage > current+1 || stage > models.StageMax {
			result = current
			return ErrStageNotAllowed
		}
		c.Stage = stage
		result = stage
		return nil
	})
	if err != nil {
		return result, err
	}
	s.logger.Info().Str("token", shortToken(token)).Int("stage", result).Msg("Stage advanced")
	return result, nil
}

// ChangePassword sets a new password for an active account.
func (s *CustomerService) ChangePassword(token, newPassword string) error {
	if _, err := s.activeCustomer(token); err != nil {
		return err
	}
	if len(newPassword) < models.MinPasswordLength {
		return ErrPasswordTooShort
	}
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.PasswordHash = hashPassword(newPassword)
		return nil
	})
	return err
}

// ResetPassword is the two-phase email reset. With no new password the
// call only verifies the address exists; with one it rewrites the hash.
// Each phase stands alone.
func (s *CustomerService) ResetPassword(email, newPassword string) (reset bool, err error) {
	if email == "" {
		return false, ErrEmailRequired
	}

	var match *models.Customer
	for _, c := range s.customers.AllCustomers() {
		if c.Email == email && c.EffectiveStatus() != models.StatusWithdrawn {
			match = c
			break
		}
	}
	if match == nil {
		return false, ErrEmailNotRegistered
	}

	if newPassword == "" {
		return false, nil
	}
	if len(newPassword) < models.MinPasswordLength {
		return false, ErrPasswordTooShort
	}
	_, err = s.customers.UpdateCustomer(match.Token, func(c *models.Customer) error {
		c.PasswordHash = hashPassword(newPassword)
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Withdraw marks the account withdrawn and clears both customer-facing
// transcripts. Already-withdrawn accounts succeed idempotently.
func (s *CustomerService) Withdraw(token string) (alreadyWithdrawn bool, err error) {
	c, err := s.customers.GetCustomer(token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if c.EffectiveStatus() == models.StatusWithdrawn {
		return true, nil
	}

	_, err = s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.Status = models.StatusWithdrawn
		c.WithdrawnAt = time.Now().UTC().Format(time.RFC3339)
		c.ChatHistory = []models.ChatMessage{}
		c.DirectChatHistory = []models.ChatMessage{}
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Info().Str("name", c.Name).Str("token", shortToken(token)).Msg("Customer withdrew")
	return false, nil
}

// Block shuts a customer out of every self-service operation.
func (s *CustomerService) Block(token string) error {
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.Status = models.StatusBlocked
		c.BlockedAt = time.Now().UTC().Format(time.RFC3339)
		return nil
	})
	return s.mapStoreErr(err)
}

// Unblock restores a blocked customer to active.
func (s *CustomerService) Unblock(token string) error {
	_, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.Status = models.StatusActive
		c.BlockedAt = ""
		return nil
	})
	return s.mapStoreErr(err)
}

// Delete removes the record permanently.
func (s *CustomerService) Delete(token string) error {
	return s.mapStoreErr(s.customers.DeleteCustomer(token))
}

// List returns every record for the console.
func (s *CustomerService) List() []*models.Customer {
	return s.customers.AllCustomers()
}

// Get returns one record for the console, regardless of status.
func (s *CustomerService) Get(token string) (*models.Customer, error) {
	c, err := s.customers.GetCustomer(token)
	return c, s.mapStoreErr(err)
}

// AdminUpdate applies console edits. Stage and age arrive as numbers
// and are handled apart from the string fields. When the prefecture or
// property type changes the auto-tags follow: the old value's tag is
// dropped and the new one is ensured and attached.
func (s *CustomerService) AdminUpdate(token string, fields map[string]string, stage, age *int) (*models.Customer, error) {
	if _, err := s.Get(token); err != nil {
		return nil, err
	}

	updated, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		oldPrefecture := c.Prefecture
		oldPropertyType := c.PropertyType

		for _, key := range models.AdminEditableFields {
			if value, ok := fields[key]; ok {
				models.SetField(c, key, value)
			}
		}
		if stage != nil {
			c.Stage = *stage
		}
		if age != nil {
			c.Age = *age
		}

		if c.Prefecture != oldPrefecture && models.IsFilled(c.Prefecture) {
			s.swapAutoTag(c, oldPrefecture, c.Prefecture, models.TagColorPrefecture, models.TagCategoryPrefecture)
		}
		if c.PropertyType != oldPropertyType && models.IsFilled(c.PropertyType) {
			s.swapAutoTag(c, oldPropertyType, c.PropertyType, models.TagColorPropertyType, models.TagCategoryPropertyType)
		}
		return nil
	})
	return updated, s.mapStoreErr(err)
}

func (s *CustomerService) swapAutoTag(c *models.Customer, oldVal, newVal, color, category string) {
	if oldVal != "" && oldVal != newVal {
		kept := c.Tags[:0]
		for _, t := range c.Tags {
			if t != oldVal {
				kept = append(kept, t)
			}
		}
		c.Tags = kept
	}
	if err := s.tags.EnsureTag(newVal, color, category); err != nil {
		s.logger.Error().Err(err).Str("tag", newVal).Msg("Failed to ensure auto-tag")
	}
	if !c.HasTag(newVal) {
		c.Tags = append(c.Tags, newVal)
	}
}

// activeCustomer loads a record and rejects blocked or withdrawn ones.
func (s *CustomerService) activeCustomer(token string) (*models.Customer, error) {
	c, err := s.customers.GetCustomer(token)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	switch c.EffectiveStatus() {
	case models.StatusBlocked, models.StatusWithdrawn:
		return nil, ErrAccessDenied
	}
	return c, nil
}

func (s *CustomerService) mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func shortToken(token string) string {
	if len(token) > 8 {
		return token[:8] + "..."
	}
	return token
}
