// Package mailer delivers notification emails over SMTP. Every send is
// best effort: failures are logged and never surfaced to the action
// that triggered them.
package mailer

import (
	"fmt"

	"leadnavi/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer sends HTML notifications through a gomail dialer. With no SMTP
// host configured it stays in disabled mode and silently drops sends.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	logger   *zerolog.Logger
}

func New(cfg config.MailConfig, logger *zerolog.Logger) *Mailer {
	m := &Mailer{
		from:     cfg.Username,
		fromName: cfg.FromName,
		logger:   logger,
	}
	if cfg.Host == "" || cfg.Username == "" {
		logger.Warn().Msg("SMTP not configured, mail notifications disabled")
		return m
	}
	m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return m
}

// Enabled reports whether a transport is configured.
func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// Notify sends one HTML email. Errors are logged only.
func (m *Mailer) Notify(to, subject, htmlBody string) {
	if m.dialer == nil || to == "" {
		return
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send notification email")
		return
	}
	m.logger.Info().Str("to", to).Str("subject", subject).Msg("Notification email sent")
}

// Verify opens and closes an SMTP connection to check the credentials.
func (m *Mailer) Verify() error {
	if m.dialer == nil {
		return fmt.Errorf("smtp is not configured")
	}
	closer, err := m.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp connection failed: %w", err)
	}
	return closer.Close()
}
