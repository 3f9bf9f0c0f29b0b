package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadnavi/internal/ai"
	"leadnavi/internal/models"
	"leadnavi/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdvisor returns canned replies and records what it was asked.
type stubAdvisor struct {
	reply     string
	err       error
	lastToken string
	calls     int
}

func (a *stubAdvisor) GenerateReply(_ context.Context, customer *models.Customer, _ []models.ChatMessage) (string, error) {
	a.calls++
	a.lastToken = customer.Token
	return a.reply, a.err
}

func (a *stubAdvisor) AgentConsult(_ context.Context, customer *models.Customer, _ []models.ChatMessage) (string, error) {
	a.lastToken = customer.Token
	return a.reply, a.err
}

func (a *stubAdvisor) CustomerPreview(_ context.Context, customer *models.Customer, _ []models.ChatMessage) (string, error) {
	a.lastToken = customer.Token
	return a.reply, a.err
}

func (a *stubAdvisor) SuggestTodos(context.Context, *models.Customer) ([]ai.TodoSuggestion, error) {
	return []ai.TodoSuggestion{{Text: "内覧を提案", Priority: models.PriorityHigh}}, a.err
}

func (a *stubAdvisor) AnalyzeInteraction(context.Context, *models.Customer, string) (*ai.InteractionAnalysis, error) {
	return &ai.InteractionAnalysis{Insight: "前向き"}, a.err
}

func (a *stubAdvisor) ExtractFromChat(context.Context, *models.Customer) (map[string]string, error) {
	return map[string]string{"area": "吹田市"}, a.err
}

// stubLimiter scripts the rate-limit decision.
type stubLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *stubLimiter) CheckRateLimit(context.Context, string, int, time.Duration) (bool, error) {
	l.calls++
	return l.allowed, l.err
}

func newChatService(t *testing.T, st *store.Store, advisor Advisor, limiter *stubLimiter) *ChatService {
	t.Helper()
	logger := zerolog.Nop()
	return NewChatService(st, advisor, limiter, testConfig(), &logger)
}

func TestChatGeneratesAndPersistsReply(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "tok1", Name: "山田"}))
	advisor := &stubAdvisor{reply: "こんにちは、山田さん。"}
	svc := newChatService(t, st, advisor, &stubLimiter{allowed: true})

	messages := []models.ChatMessage{{Role: "user", Content: "こんにちは"}}
	reply, err := svc.Chat(context.Background(), "tok1", messages)
	require.NoError(t, err)
	assert.Equal(t, "こんにちは、山田さん。", reply)

	c, err := st.GetCustomer("tok1")
	require.NoError(t, err)
	require.Len(t, c.ChatHistory, 2)
	assert.Equal(t, "user", c.ChatHistory[0].Role)
	assert.Equal(t, "assistant", c.ChatHistory[1].Role)
	assert.Equal(t, reply, c.ChatHistory[1].Content)
}

func TestChatWithoutAdvisor(t *testing.T) {
	st := newTestStore(t)
	svc := newChatService(t, st, nil, &stubLimiter{allowed: true})

	_, err := svc.Chat(context.Background(), "tok1", []models.ChatMessage{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
}

func TestChatRefusesBlockedAndWithdrawn(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "blocked", Status: models.StatusBlocked}))
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "gone", Status: models.StatusWithdrawn}))
	svc := newChatService(t, st, &stubAdvisor{reply: "x"}, &stubLimiter{allowed: true})

	messages := []models.ChatMessage{{Role: "user", Content: "hi"}}
	_, err := svc.Chat(context.Background(), "blocked", messages)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.Chat(context.Background(), "gone", messages)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.Chat(context.Background(), "missing", messages)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Chat(context.Background(), "blocked", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatRateLimit(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "tok1"}))
	advisor := &stubAdvisor{reply: "ok"}
	limiter := &stubLimiter{allowed: false}
	svc := newChatService(t, st, advisor, limiter)

	messages := []models.ChatMessage{{Role: "user", Content: "hi"}}
	_, err := svc.Chat(context.Background(), "tok1", messages)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Zero(t, advisor.calls)
}

func TestChatAllowsWhenLimiterFails(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "tok1"}))
	advisor := &stubAdvisor{reply: "ok"}
	limiter := &stubLimiter{err: errors.New("redis down")}
	svc := newChatService(t, st, advisor, limiter)

	reply, err := svc.Chat(context.Background(), "tok1", []models.ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestChatPropagatesAdvisorError(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "tok1"}))
	advisor := &stubAdvisor{err: ai.ErrTimeout}
	svc := newChatService(t, st, advisor, &stubLimiter{allowed: true})

	_, err := svc.Chat(context.Background(), "tok1", []models.ChatMessage{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ai.ErrTimeout)

	// The transcript is untouched on failure.
	c, err := st.GetCustomer("tok1")
	require.NoError(t, err)
	assert.Empty(t, c.ChatHistory)
}

func TestAgentConsultPersistsConsultTranscript(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "tok1"}))
	svc := newChatService(t, st, &stubAdvisor{reply: "提案: 内覧を打診しましょう"}, &stubLimiter{allowed: true})

	reply, err := svc.AgentConsult(context.Background(), "tok1", []models.ChatMessage{
		{Role: "user", Content: "次の一手は？"},
	})
	require.NoError(t, err)

	c, err := st.GetCustomer("tok1")
	require.NoError(t, err)
	require.Len(t, c.AgentChatHistory, 2)
	assert.Equal(t, reply, c.AgentChatHistory[1].Content)
	// The customer-visible transcript stays clean.
	assert.Empty(t, c.ChatHistory)
}

func TestCustomerPreviewDoesNotPersist(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "tok1"}))
	svc := newChatService(t, st, &stubAdvisor{reply: "preview"}, &stubLimiter{allowed: true})

	reply, err := svc.CustomerPreview(context.Background(), "tok1", []models.ChatMessage{
		{Role: "user", Content: "こんにちは"},
	})
	require.NoError(t, err)
	assert.Equal(t, "preview", reply)

	c, err := st.GetCustomer("tok1")
	require.NoError(t, err)
	assert.Empty(t, c.ChatHistory)
	assert.Empty(t, c.AgentChatHistory)
}

func TestConsoleHelpersRequireCustomer(t *testing.T) {
	st := newTestStore(t)
	svc := newChatService(t, st, &stubAdvisor{}, &stubLimiter{allowed: true})
	ctx := context.Background()

	_, err := svc.SuggestTodos(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.AnalyzeInteraction(ctx, "missing", "content")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ExtractFromChat(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsoleHelpersPassThrough(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.PutCustomer(&models.Customer{Token: "tok1"}))
	svc := newChatService(t, st, &stubAdvisor{}, &stubLimiter{allowed: true})
	ctx := context.Background()

	todos, err := svc.SuggestTodos(ctx, "tok1")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "内覧を提案", todos[0].Text)

	analysis, err := svc.AnalyzeInteraction(ctx, "tok1", "電話で話した")
	require.NoError(t, err)
	assert.Equal(t, "前向き", analysis.Insight)

	extracted, err := svc.ExtractFromChat(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "吹田市", extracted["area"])
}
