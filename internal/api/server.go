package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"leadnavi/internal/config"
	"leadnavi/internal/metrics"
	"leadnavi/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Server exposes the customer-facing and console HTTP API.
type Server struct {
	cfg       *config.Config
	logger    *zerolog.Logger
	customers *service.CustomerService
	tags      *service.TagService
	engage    *service.EngagementService
	chat      *service.ChatService
	broadcast *service.BroadcastService
	settings  *service.SettingsService
	server    *http.Server
	limiters  sync.Map // map[string]*rate.Limiter keyed by client IP
}

type Services struct {
	Customers *service.CustomerService
	Tags      *service.TagService
	Engage    *service.EngagementService
	Chat      *service.ChatService
	Broadcast *service.BroadcastService
	Settings  *service.SettingsService
}

func NewServer(cfg *config.Config, svc Services, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		customers: svc.Customers,
		tags:      svc.Tags,
		engage:    svc.Engage,
		chat:      svc.Chat,
		broadcast: svc.Broadcast,
		settings:  svc.Settings,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	handler := s.loggingMiddleware(s.rateLimitMiddleware(mux))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/config", s.handleConfig)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/session/{token}", s.handleSession)
	mux.HandleFunc("GET /api/customer/profile/{token}", s.handleProfileGet)
	mux.HandleFunc("PUT /api/customer/profile/{token}", s.handleProfilePut)
	mux.HandleFunc("POST /api/customer/advance-stage/{token}", s.handleAdvanceStage)
	mux.HandleFunc("POST /api/customer/change-password/{token}", s.handleChangePassword)
	mux.HandleFunc("POST /api/reset-password", s.handleResetPassword)
	mux.HandleFunc("POST /api/chat-history/{token}", s.handleSaveChatHistory)
	mux.HandleFunc("POST /api/direct-chat-history/{token}", s.handleSaveDirectChat)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/withdraw/{token}", s.handleWithdraw)

	admin := s.adminOnly
	mux.HandleFunc("GET /api/admin/customers", admin(s.handleAdminCustomers))
	mux.HandleFunc("GET /api/admin/customers/export", admin(s.handleAdminExport))
	mux.HandleFunc("POST /api/admin/block/{token}", admin(s.handleAdminBlock))
	mux.HandleFunc("POST /api/admin/unblock/{token}", admin(s.handleAdminUnblock))
	mux.HandleFunc("DELETE /api/admin/customer/{token}", admin(s.handleAdminDelete))
	mux.HandleFunc("POST /api/admin/change-password", admin(s.handleAdminChangePassword))
	mux.HandleFunc("GET /api/admin/direct-chat/{token}", admin(s.handleAdminDirectChatGet))
	mux.HandleFunc("POST /api/admin/direct-chat/{token}", admin(s.handleAdminDirectChatPost))
	mux.HandleFunc("GET /api/admin/tags", admin(s.handleAdminTags))
	mux.HandleFunc("POST /api/admin/tags", admin(s.handleAdminTagCreate))
	mux.HandleFunc("DELETE /api/admin/tags/{id}", admin(s.handleAdminTagDelete))
	mux.HandleFunc("PUT /api/admin/customer/{token}/tags", admin(s.handleAdminCustomerTags))
	mux.HandleFunc("GET /api/admin/broadcasts", admin(s.handleAdminBroadcasts))
	mux.HandleFunc("POST /api/admin/broadcasts/preview", admin(s.handleAdminBroadcastPreview))
	mux.HandleFunc("POST /api/admin/broadcasts/send", admin(s.handleAdminBroadcastSend))
	mux.HandleFunc("GET /api/admin/customer/{token}", admin(s.handleAdminCustomerGet))
	mux.HandleFunc("PUT /api/admin/customer/{token}", admin(s.handleAdminCustomerPut))
	mux.HandleFunc("GET /api/admin/interactions/{token}", admin(s.handleAdminInteractions))
	mux.HandleFunc("POST /api/admin/interactions/{token}", admin(s.handleAdminInteractionAdd))
	mux.HandleFunc("DELETE /api/admin/interaction/{token}/{id}", admin(s.handleAdminInteractionDelete))
	mux.HandleFunc("GET /api/admin/todos/{token}", admin(s.handleAdminTodos))
	mux.HandleFunc("POST /api/admin/todos/{token}", admin(s.handleAdminTodoAdd))
	mux.HandleFunc("PUT /api/admin/todo/{token}/{id}", admin(s.handleAdminTodoUpdate))
	mux.HandleFunc("DELETE /api/admin/todo/{token}/{id}", admin(s.handleAdminTodoDelete))
	mux.HandleFunc("GET /api/admin/checklist/{token}", admin(s.handleAdminChecklistGet))
	mux.HandleFunc("PUT /api/admin/checklist/{token}", admin(s.handleAdminChecklistPut))
	mux.HandleFunc("GET /api/admin/checklist-template", admin(s.handleAdminChecklistTemplate))
	mux.HandleFunc("POST /api/admin/chat-agent/{token}", admin(s.handleAdminChatAgent))
	mux.HandleFunc("POST /api/admin/chat-customer/{token}", admin(s.handleAdminChatCustomer))
	mux.HandleFunc("POST /api/admin/suggest-todos/{token}", admin(s.handleAdminSuggestTodos))
	mux.HandleFunc("POST /api/admin/analyze-interaction/{token}", admin(s.handleAdminAnalyzeInteraction))
	mux.HandleFunc("POST /api/admin/extract-from-chat/{token}", admin(s.handleAdminExtractFromChat))
	mux.HandleFunc("POST /api/admin/apply-extracted-info/{token}", admin(s.handleAdminApplyExtracted))
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		if r.Pattern != "" {
			metrics.IncHTTP(r.Pattern)
		}
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Str("ip", clientIP(r)).
			Msg("HTTP request")
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Server.RateLimit.RPS > 0 {
			if !s.limiterFor(clientIP(r)).Allow() {
				writeError(w, http.StatusTooManyRequests, "リクエストが多すぎます。しばらくお待ちください。")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limiterFor(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.Server.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}
	lim := rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimit.RPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
