package mailer

import (
	"strings"
	"sync"
	"testing"

	"leadnavi/internal/config"
	"leadnavi/internal/events"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	body, err := RenderWelcome(events.CustomerEventPayload{
		Token:      "tok123",
		Name:       "山田太郎",
		BirthYear:  "1990",
		BirthMonth: "4",
		Area:       "吹田市",
		Articles: []events.Article{
			{Title: "住宅ローンの基本", URL: "https://muchinochi55.com/loan-basics/"},
		},
	}, "https://app.example.com", "https://timerex.net/s/example", "https://muchinochi55.com")
	require.NoError(t, err)

	assert.Contains(t, body, "山田太郎")
	assert.Contains(t, body, "1990年4月")
	assert.Contains(t, body, "住宅ローンの基本")
	// Withdraw link carries the token.
	assert.Contains(t, body, "?t=tok123&withdraw=true")
}

func TestRenderWelcomeDefaults(t *testing.T) {
	body, err := RenderWelcome(events.CustomerEventPayload{}, "", "", "")
	require.NoError(t, err)
	assert.Contains(t, body, "お客様")
}

func TestRenderLeadAlertDashesEmptyFields(t *testing.T) {
	body, err := RenderLeadAlert(events.CustomerEventPayload{Name: "山田太郎"})
	require.NoError(t, err)
	assert.Contains(t, body, "山田太郎")
	assert.Contains(t, body, "-")
}

func TestRenderNewMessageClipsPreview(t *testing.T) {
	long := strings.Repeat("あ", 300)
	body, err := RenderNewMessage("山田", long, "https://app.example.com")
	require.NoError(t, err)
	assert.Contains(t, body, strings.Repeat("あ", 200))
	assert.NotContains(t, body, strings.Repeat("あ", 201))
}

func TestRenderAnnouncementClipsAt500Runes(t *testing.T) {
	long := strings.Repeat("い", 600)
	body, err := RenderAnnouncement("", long, "")
	require.NoError(t, err)
	assert.Contains(t, body, strings.Repeat("い", 500)+"...")
	assert.Contains(t, body, "お客様")
}

func TestMailerDisabledWithoutCredentials(t *testing.T) {
	logger := zerolog.Nop()
	m := New(config.MailConfig{}, &logger)
	assert.False(t, m.Enabled())

	// Notify on a disabled mailer must be a silent no-op.
	m.Notify("someone@example.com", "subject", "<p>body</p>")
}

type captureNotifier struct {
	mu    sync.Mutex
	calls []struct{ To, Subject string }
}

func (n *captureNotifier) Notify(to, subject, htmlBody string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, struct{ To, Subject string }{to, subject})
}

func newTestSubscriber(n *captureNotifier) *Subscriber {
	logger := zerolog.Nop()
	return NewSubscriber(n,
		config.MailConfig{NotifyEmail: "agent@example.com"},
		config.LinksConfig{AppURL: "https://app.example.com"},
		&logger)
}

func TestOnCustomerRegisteredSendsWelcomeAndAlert(t *testing.T) {
	n := &captureNotifier{}
	sub := newTestSubscriber(n)
	bus := events.NewEventBus()
	sub.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventCustomerRegistered, events.CustomerEventPayload{
		Token: "tok1",
		Name:  "山田太郎",
		Email: "taro@example.com",
	}))

	require.Len(t, n.calls, 2)
	assert.Equal(t, "taro@example.com", n.calls[0].To)
	assert.Contains(t, n.calls[0].Subject, "ご登録ありがとうございます")
	assert.Equal(t, "agent@example.com", n.calls[1].To)
	assert.Contains(t, n.calls[1].Subject, "【新規登録】")
	// Missing area and budget show as 未定 in the alert subject.
	assert.Contains(t, n.calls[1].Subject, "未定・未定")
}

func TestOnAgentMessageSkipsWithoutEmail(t *testing.T) {
	n := &captureNotifier{}
	sub := newTestSubscriber(n)
	bus := events.NewEventBus()
	sub.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventAgentMessageSent, events.MessageEventPayload{
		Token:   "tok1",
		Name:    "山田",
		Content: "こんにちは",
	}))
	assert.Empty(t, n.calls)
}

func TestOnBroadcastSentFansOutToEmails(t *testing.T) {
	n := &captureNotifier{}
	sub := newTestSubscriber(n)
	bus := events.NewEventBus()
	sub.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventBroadcastSent, events.BroadcastEventPayload{
		BroadcastID: "bcast_1",
		Message:     "お知らせです",
		Recipients: []events.BroadcastRecipient{
			{Token: "a", Name: "A", Email: "a@example.com"},
			{Token: "b", Name: "B"}, // no email, skipped
			{Token: "c", Name: "C", Email: "c@example.com"},
		},
	}))

	require.Len(t, n.calls, 2)
	for _, call := range n.calls {
		assert.Equal(t, "📢 岡本からのお知らせ", call.Subject)
	}
}
