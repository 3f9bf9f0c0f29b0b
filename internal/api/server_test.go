package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadnavi/internal/config"
	"leadnavi/internal/events"
	"leadnavi/internal/models"
	"leadnavi/internal/repository"
	"leadnavi/internal/service"
	"leadnavi/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminPass = "console-secret"

type testServer struct {
	*Server
	store     *store.Store
	customers *service.CustomerService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zerolog.Nop()

	st, err := store.New(t.TempDir(), &logger)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Admin.Password = testAdminPass
	cfg.Chat.RateLimitMessages = 20
	cfg.Chat.RateLimitWindow = 60
	cfg.Links.BookingURL = "https://timerex.net/s/example"
	cfg.Links.BlogURL = "https://muchinochi55.com"
	cfg.Exports.Path = t.TempDir()

	bus := events.NewEventBus()
	tags := service.NewTagService(st, st, &logger)
	customers := service.NewCustomerService(st, tags, bus, nil, cfg, &logger)
	engage := service.NewEngagementService(st, bus, &logger)
	chat := service.NewChatService(st, nil, repository.NewMemoryStateRepository(), cfg, &logger)
	broadcast := service.NewBroadcastService(st, st, bus, &logger)
	settings := service.NewSettingsService(st, cfg.Admin.Password, &logger)

	srv := NewServer(cfg, Services{
		Customers: customers,
		Tags:      tags,
		Engage:    engage,
		Chat:      chat,
		Broadcast: broadcast,
		Settings:  settings,
	}, &logger)

	return &testServer{Server: srv, store: st, customers: customers}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("x-admin-pass", testAdminPass)
	}
	rec := httptest.NewRecorder()
	ts.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (ts *testServer) register(t *testing.T, c *models.Customer) string {
	t.Helper()
	created, err := ts.customers.Register(context.Background(), c, "password123")
	require.NoError(t, err)
	return created.Token
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/health", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestConfigEndpoint(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/config", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "https://timerex.net/s/example", body["bookingUrl"])
	assert.Equal(t, "https://muchinochi55.com", body["blogUrl"])
}

func TestAdminRoutesRequirePassword(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/customers", nil, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "認証エラー")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/customers", nil)
	req.Header.Set("x-admin-pass", "wrong")
	wrong := httptest.NewRecorder()
	ts.server.Handler.ServeHTTP(wrong, req)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	ok := ts.do(t, http.MethodGet, "/api/admin/customers", nil, true)
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestRegisterLoginSessionFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/register", map[string]any{
		"name":       "山田太郎",
		"email":      "taro@example.com",
		"prefecture": "大阪府",
		"password":   "password123",
	}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	require.Len(t, token, 32)

	login := ts.do(t, http.MethodPost, "/api/login", map[string]string{
		"email":    "taro@example.com",
		"password": "password123",
	}, false)
	require.Equal(t, http.StatusOK, login.Code)
	loginBody := decodeBody(t, login)
	assert.Equal(t, token, loginBody["token"])
	customer, _ := loginBody["customer"].(map[string]any)
	require.NotNil(t, customer)
	assert.Equal(t, "山田太郎", customer["name"])

	session := ts.do(t, http.MethodGet, "/api/session/"+token, nil, false)
	require.Equal(t, http.StatusOK, session.Code)
	sessionBody := decodeBody(t, session)
	assert.Equal(t, true, sessionBody["found"])

	missing := ts.do(t, http.MethodGet, "/api/session/ffffffffffffffffffffffffffffffff", nil, false)
	require.Equal(t, http.StatusOK, missing.Code)
	assert.Equal(t, false, decodeBody(t, missing)["found"])
}

func TestLoginFailures(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, &models.Customer{Email: "taro@example.com"})

	rec := ts.do(t, http.MethodPost, "/api/login", map[string]string{"email": ""}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "メールアドレスを入力してください", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPost, "/api/login", map[string]string{
		"email":    "taro@example.com",
		"password": "wrong",
	}, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "メールアドレスまたはパスワードが正しくありません", decodeBody(t, rec)["error"])
}

func TestProfileUpdateFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, &models.Customer{Name: "山田太郎", Email: "taro@example.com"})

	rec := ts.do(t, http.MethodPut, "/api/customer/profile/"+token, map[string]string{
		"area":   "吹田市",
		"budget": "5000万円",
	}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "保存しました", body["message"])

	get := ts.do(t, http.MethodGet, "/api/customer/profile/"+token, nil, false)
	require.Equal(t, http.StatusOK, get.Code)
	profile, _ := decodeBody(t, get)["profile"].(map[string]any)
	require.NotNil(t, profile)
	assert.Equal(t, "吹田市", profile["area"])
}

func TestChatWithoutAPIKeyReturnsInlineError(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, &models.Customer{Name: "山田"})

	rec := ts.do(t, http.MethodPost, "/api/chat", map[string]any{
		"token":    token,
		"messages": []map[string]string{{"role": "user", "content": "こんにちは"}},
	}, false)

	// AI failures surface as 200 so the widget renders them inline.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "APIキーが設定されていません", decodeBody(t, rec)["error"])
}

func TestAdminCustomerListDashDefaults(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, &models.Customer{Name: "山田太郎"})

	rec := ts.do(t, http.MethodGet, "/api/admin/customers", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	customers, _ := decodeBody(t, rec)["customers"].([]any)
	require.Len(t, customers, 1)
	first, _ := customers[0].(map[string]any)
	require.NotNil(t, first)
	assert.Equal(t, "山田太郎", first["name"])
	assert.Equal(t, "-", first["email"])
	assert.Equal(t, models.StatusActive, first["status"])
}

func TestAdminBlockUnblockFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, &models.Customer{Name: "山田太郎"})

	rec := ts.do(t, http.MethodPost, "/api/admin/block/"+token, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "ブロックしました")

	c, err := ts.store.GetCustomer(token)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBlocked, c.Status)

	rec = ts.do(t, http.MethodPost, "/api/admin/unblock/"+token, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "解除しました")

	rec = ts.do(t, http.MethodPost, "/api/admin/block/ffffffffffffffffffffffffffffffff", nil, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "お客様が見つかりません", decodeBody(t, rec)["error"])
}

func TestAdminTagLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/admin/tags", map[string]string{"name": "投資検討"}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	tag, _ := decodeBody(t, rec)["tag"].(map[string]any)
	require.NotNil(t, tag)
	id, _ := tag["id"].(string)
	assert.Contains(t, id, "tag_")

	dup := ts.do(t, http.MethodPost, "/api/admin/tags", map[string]string{"name": "投資検討"}, true)
	require.Equal(t, http.StatusBadRequest, dup.Code)
	assert.Equal(t, "同名のタグが既に存在します", decodeBody(t, dup)["error"])

	empty := ts.do(t, http.MethodPost, "/api/admin/tags", map[string]string{"name": "  "}, true)
	require.Equal(t, http.StatusBadRequest, empty.Code)
	assert.Equal(t, "タグ名を入力してください", decodeBody(t, empty)["error"])

	del := ts.do(t, http.MethodDelete, "/api/admin/tags/"+id, nil, true)
	require.Equal(t, http.StatusOK, del.Code)

	again := ts.do(t, http.MethodDelete, "/api/admin/tags/"+id, nil, true)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestAdminBroadcastPreviewAndSend(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, &models.Customer{Name: "山田太郎", Prefecture: "大阪府", Email: "taro@example.com"})
	ts.register(t, &models.Customer{Name: "佐藤花子", Prefecture: "東京都"})

	preview := ts.do(t, http.MethodPost, "/api/admin/broadcasts/preview", map[string]any{
		"filterType": models.FilterIncludeAny,
		"filterTags": []string{"大阪府"},
	}, true)
	require.Equal(t, http.StatusOK, preview.Code)
	previewBody := decodeBody(t, preview)
	assert.Equal(t, float64(1), previewBody["matchCount"])

	send := ts.do(t, http.MethodPost, "/api/admin/broadcasts/send", map[string]any{
		"message":    "新着物件のお知らせ",
		"filterType": models.FilterIncludeAny,
		"filterTags": []string{"大阪府"},
	}, true)
	require.Equal(t, http.StatusOK, send.Code)
	sendBody := decodeBody(t, send)
	assert.Equal(t, true, sendBody["success"])
	assert.Equal(t, float64(1), sendBody["sentCount"])

	noOne := ts.do(t, http.MethodPost, "/api/admin/broadcasts/send", map[string]any{
		"message":    "誰にも届かない",
		"filterType": models.FilterIncludeAny,
		"filterTags": []string{"存在しないタグ"},
	}, true)
	require.Equal(t, http.StatusBadRequest, noOne.Code)
	assert.Equal(t, "配信対象のお客様がいません", decodeBody(t, noOne)["error"])

	emptyMsg := ts.do(t, http.MethodPost, "/api/admin/broadcasts/send", map[string]any{
		"message": "  ",
	}, true)
	require.Equal(t, http.StatusBadRequest, emptyMsg.Code)
	assert.Equal(t, "メッセージを入力してください", decodeBody(t, emptyMsg)["error"])
}

func TestAdminDirectChat(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, &models.Customer{Name: "山田"})

	post := ts.do(t, http.MethodPost, "/api/admin/direct-chat/"+token, map[string]string{
		"message": "物件資料をお送りします",
	}, true)
	require.Equal(t, http.StatusOK, post.Code)

	get := ts.do(t, http.MethodGet, "/api/admin/direct-chat/"+token, nil, true)
	require.Equal(t, http.StatusOK, get.Code)
	messages, _ := decodeBody(t, get)["messages"].([]any)
	require.Len(t, messages, 1)
}

func TestWithdrawFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, &models.Customer{Name: "山田", Email: "taro@example.com"})

	rec := ts.do(t, http.MethodPost, "/api/withdraw/"+token, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "退会処理が完了しました")

	again := ts.do(t, http.MethodPost, "/api/withdraw/"+token, nil, false)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Contains(t, decodeBody(t, again)["message"], "すでに退会済みです")

	missing := ts.do(t, http.MethodPost, "/api/withdraw/ffffffffffffffffffffffffffffffff", nil, false)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestAdminChangePassword(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/admin/change-password", map[string]string{
		"currentPassword": "wrong",
		"newPassword":     "next-secret",
	}, true)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	short := ts.do(t, http.MethodPost, "/api/admin/change-password", map[string]string{
		"currentPassword": testAdminPass,
		"newPassword":     "abc",
	}, true)
	require.Equal(t, http.StatusBadRequest, short.Code)

	ok := ts.do(t, http.MethodPost, "/api/admin/change-password", map[string]string{
		"currentPassword": testAdminPass,
		"newPassword":     "next-secret",
	}, true)
	require.Equal(t, http.StatusOK, ok.Code)

	// The old secret no longer opens the console.
	after := ts.do(t, http.MethodGet, "/api/admin/customers", nil, true)
	assert.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	ts := newTestServer(t)
	ts.cfg.Server.RateLimit.RPS = 1
	ts.cfg.Server.RateLimit.Burst = 1

	first := ts.do(t, http.MethodGet, "/api/health", nil, false)
	require.Equal(t, http.StatusOK, first.Code)

	second := ts.do(t, http.MethodGet, "/api/health", nil, false)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "リクエストが多すぎます。しばらくお待ちください。", decodeBody(t, second)["error"])
}
