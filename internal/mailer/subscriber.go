package mailer

import (
	"encoding/json"
	"fmt"
	"sync"

	"leadnavi/internal/config"
	"leadnavi/internal/domain"
	"leadnavi/internal/events"

	"github.com/rs/zerolog"
)

// Subscriber wires the event bus to outbound email. Services publish
// domain events and never block on SMTP.
type Subscriber struct {
	notifier    domain.Notifier
	notifyEmail string
	appURL      string
	bookingURL  string
	blogURL     string
	logger      *zerolog.Logger
}

func NewSubscriber(notifier domain.Notifier, mail config.MailConfig, links config.LinksConfig, logger *zerolog.Logger) *Subscriber {
	return &Subscriber{
		notifier:    notifier,
		notifyEmail: mail.NotifyEmail,
		appURL:      links.AppURL,
		bookingURL:  links.BookingURL,
		blogURL:     links.BlogURL,
		logger:      logger,
	}
}

// Subscribe registers handlers for every notification-bearing event.
func (s *Subscriber) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventCustomerRegistered, s.onCustomerRegistered)
	bus.Subscribe(events.EventDirectMessageReceived, s.onDirectMessageReceived)
	bus.Subscribe(events.EventAgentMessageSent, s.onAgentMessageSent)
	bus.Subscribe(events.EventBroadcastSent, s.onBroadcastSent)
}

func (s *Subscriber) onCustomerRegistered(event *events.Event) error {
	var p events.CustomerEventPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		return err
	}

	if p.Email != "" {
		body, err := RenderWelcome(p, s.appURL, s.bookingURL, s.blogURL)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to render welcome email")
		} else {
			subject := fmt.Sprintf("%sさん、MuchiNaviへのご登録ありがとうございます！", p.Name)
			s.notifier.Notify(p.Email, subject, body)
		}
	}

	if s.notifyEmail != "" {
		body, err := RenderLeadAlert(p)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to render lead alert email")
			return err
		}
		area := p.Area
		if area == "" {
			area = "未定"
		}
		budget := p.Budget
		if budget == "" {
			budget = "未定"
		}
		subject := fmt.Sprintf("🏠【新規登録】%sさん｜%s・%s", p.Name, area, budget)
		s.notifier.Notify(s.notifyEmail, subject, body)
	}
	return nil
}

func (s *Subscriber) onDirectMessageReceived(event *events.Event) error {
	if s.notifyEmail == "" {
		return nil
	}
	var p events.MessageEventPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		return err
	}

	body, err := RenderNewMessage(p.Name, p.Content, s.appURL)
	if err != nil {
		return err
	}
	name := p.Name
	if name == "" {
		name = "名前未登録"
	}
	s.notifier.Notify(s.notifyEmail, fmt.Sprintf("💬 %sさんからメッセージが届きました", name), body)
	return nil
}

func (s *Subscriber) onAgentMessageSent(event *events.Event) error {
	var p events.MessageEventPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		return err
	}
	if p.Email == "" {
		return nil
	}

	body, err := RenderAgentMessage(p.Name, p.Content, s.appURL)
	if err != nil {
		return err
	}
	s.notifier.Notify(p.Email, "📩 岡本からメッセージが届いています", body)
	return nil
}

// onBroadcastSent fans the announcement out to every recipient with an
// email address. All sends settle before the handler returns; a failed
// recipient never stops the rest.
func (s *Subscriber) onBroadcastSent(event *events.Event) error {
	var p events.BroadcastEventPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, r := range p.Recipients {
		if r.Email == "" {
			continue
		}
		body, err := RenderAnnouncement(r.Name, p.Message, s.appURL)
		if err != nil {
			s.logger.Error().Err(err).Str("token", r.Token).Msg("Failed to render announcement email")
			continue
		}
		wg.Add(1)
		go func(email, body string) {
			defer wg.Done()
			s.notifier.Notify(email, "📢 岡本からのお知らせ", body)
		}(r.Email, body)
	}
	wg.Wait()

	s.logger.Info().Str("broadcast_id", p.BroadcastID).Int("recipients", len(p.Recipients)).Msg("Broadcast notifications settled")
	return nil
}
