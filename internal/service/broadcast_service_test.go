package service

import (
	"encoding/json"
	"testing"

	"leadnavi/internal/events"
	"leadnavi/internal/models"
	"leadnavi/internal/segment"
	"leadnavi/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBroadcastService(t *testing.T) (*BroadcastService, *store.Store, *recordPublisher) {
	t.Helper()
	st := newTestStore(t)
	pub := &recordPublisher{}
	logger := zerolog.Nop()
	return NewBroadcastService(st, st, pub, &logger), st, pub
}

func seedAudience(t *testing.T, st *store.Store) {
	t.Helper()
	require.NoError(t, st.PutCustomer(&models.Customer{
		Token: "a", Name: "A", Email: "a@example.com",
		Tags: []string{"大阪府"}, CreatedAt: "2026-01-01T00:00:00Z",
	}))
	require.NoError(t, st.PutCustomer(&models.Customer{
		Token: "b", Name: "B",
		Tags: []string{"東京都"}, CreatedAt: "2026-01-02T00:00:00Z",
	}))
	require.NoError(t, st.PutCustomer(&models.Customer{
		Token: "c", Name: "C", Status: models.StatusBlocked,
		Tags: []string{"大阪府"}, CreatedAt: "2026-01-03T00:00:00Z",
	}))
}

func TestBroadcastSendDeliversToMatchedOnly(t *testing.T) {
	svc, st, pub := newBroadcastService(t)
	seedAudience(t, st)

	b, err := svc.Send("新着物件のお知らせです", models.FilterIncludeAny, []string{"大阪府"})
	require.NoError(t, err)
	assert.Contains(t, b.ID, "bcast_")
	assert.Equal(t, 1, b.RecipientCount)
	assert.Equal(t, []string{"a"}, b.RecipientTokens)

	a, _ := st.GetCustomer("a")
	require.Len(t, a.DirectChatHistory, 1)
	assert.Equal(t, "agent", a.DirectChatHistory[0].Role)
	assert.Equal(t, b.ID, a.DirectChatHistory[0].BroadcastID)

	// Unmatched and blocked customers stay untouched.
	for _, token := range []string{"b", "c"} {
		c, _ := st.GetCustomer(token)
		assert.Empty(t, c.DirectChatHistory)
	}

	published := pub.byType(events.EventBroadcastSent)
	require.Len(t, published, 1)
	var payload events.BroadcastEventPayload
	require.NoError(t, json.Unmarshal(published[0].Payload, &payload))
	assert.Equal(t, b.ID, payload.BroadcastID)
	require.Len(t, payload.Recipients, 1)
	assert.Equal(t, "a@example.com", payload.Recipients[0].Email)
}

func TestBroadcastSendValidation(t *testing.T) {
	svc, st, _ := newBroadcastService(t)
	seedAudience(t, st)

	_, err := svc.Send("   ", "", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.Send("hi", models.FilterIncludeAny, []string{"存在しないタグ"})
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = svc.Send("hi", "bogus-mode", []string{"大阪府"})
	assert.ErrorIs(t, err, segment.ErrInvalidFilterMode)
}

func TestBroadcastSendDefaultsFilterFields(t *testing.T) {
	svc, st, _ := newBroadcastService(t)
	seedAudience(t, st)

	b, err := svc.Send("全員向けのお知らせ", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.FilterAll, b.FilterType)
	assert.NotNil(t, b.FilterTags)
	// Blocked customers are never recipients.
	assert.Equal(t, 2, b.RecipientCount)
}

func TestBroadcastHistoryNewestFirst(t *testing.T) {
	svc, st, _ := newBroadcastService(t)
	seedAudience(t, st)

	first, err := svc.Send("一通目", "", nil)
	require.NoError(t, err)
	second, err := svc.Send("二通目", "", nil)
	require.NoError(t, err)

	history := svc.History()
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
}

func TestBroadcastPreviewDoesNotDeliver(t *testing.T) {
	svc, st, pub := newBroadcastService(t)
	seedAudience(t, st)

	matched, err := svc.Preview(models.FilterIncludeAny, []string{"大阪府"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "a", matched[0].Token)

	a, _ := st.GetCustomer("a")
	assert.Empty(t, a.DirectChatHistory)
	assert.Empty(t, pub.byType(events.EventBroadcastSent))
	assert.Empty(t, svc.History())
}
