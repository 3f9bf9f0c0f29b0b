package api

import (
	"errors"
	"net/http"

	"leadnavi/internal/ai"
	"leadnavi/internal/metrics"
	"leadnavi/internal/models"
	"leadnavi/internal/service"
)

func aiOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ai.ErrTimeout):
		return "timeout"
	case errors.Is(err, ai.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}

// handleChat produces the assistant's next turn. AI failures come back
// as 200 with a user-facing error message so the widget can render them
// inline.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string               `json:"token"`
		Messages []models.ChatMessage `json:"messages"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	reply, err := s.chat.Chat(r.Context(), body.Token, body.Messages)
	switch {
	case err == nil:
		metrics.IncAICall("ok")
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
	case errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "メッセージを入力してください")
	case errors.Is(err, service.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "メッセージの送信回数が上限に達しました。しばらくしてからお試しください。")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrAccessDenied):
		writeJSON(w, http.StatusOK, map[string]string{"error": "このサービスはご利用いただけません。"})
	default:
		metrics.IncAICall(aiOutcome(err))
		writeJSON(w, http.StatusOK, map[string]string{"error": ai.UserFacingError(err)})
	}
}

func (s *Server) handleAdminChatAgent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	reply, err := s.chat.AgentConsult(r.Context(), r.PathValue("token"), body.Messages)
	switch {
	case err == nil:
		metrics.IncAICall("ok")
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
	default:
		metrics.IncAICall(aiOutcome(err))
		writeJSON(w, http.StatusOK, map[string]string{"error": ai.UserFacingError(err)})
	}
}

func (s *Server) handleAdminChatCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	reply, err := s.chat.CustomerPreview(r.Context(), r.PathValue("token"), body.Messages)
	switch {
	case err == nil:
		metrics.IncAICall("ok")
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
	default:
		metrics.IncAICall(aiOutcome(err))
		writeJSON(w, http.StatusOK, map[string]string{"error": ai.UserFacingError(err)})
	}
}

func (s *Server) handleAdminSuggestTodos(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.chat.SuggestTodos(r.Context(), r.PathValue("token"))
	switch {
	case err == nil:
		metrics.IncAICall("ok")
		if suggestions == nil {
			suggestions = []ai.TodoSuggestion{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
	default:
		metrics.IncAICall(aiOutcome(err))
		writeJSON(w, http.StatusOK, map[string]string{"error": "AI提案の生成に失敗しました: " + ai.UserFacingError(err)})
	}
}

func (s *Server) handleAdminAnalyzeInteraction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	analysis, err := s.chat.AnalyzeInteraction(r.Context(), r.PathValue("token"), body.Content)
	switch {
	case err == nil:
		metrics.IncAICall("ok")
		writeJSON(w, http.StatusOK, analysis)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
	default:
		metrics.IncAICall(aiOutcome(err))
		writeJSON(w, http.StatusOK, map[string]string{"error": "AI分析に失敗しました: " + ai.UserFacingError(err)})
	}
}

func (s *Server) handleAdminExtractFromChat(w http.ResponseWriter, r *http.Request) {
	extracted, err := s.chat.ExtractFromChat(r.Context(), r.PathValue("token"))
	switch {
	case err == nil:
		metrics.IncAICall("ok")
		if extracted == nil {
			extracted = map[string]string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"extracted": extracted})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
	default:
		metrics.IncAICall(aiOutcome(err))
		writeJSON(w, http.StatusOK, map[string]string{"error": "情報抽出に失敗しました: " + ai.UserFacingError(err)})
	}
}
