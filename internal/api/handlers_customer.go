package api

import (
	"errors"
	"net/http"
	"time"

	"leadnavi/internal/metrics"
	"leadnavi/internal/models"
	"leadnavi/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"bookingUrl": s.cfg.Links.BookingURL,
		"blogUrl":    s.cfg.Links.BlogURL,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		models.Customer
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.customers.Register(r.Context(), &body.Customer, body.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "登録に失敗しました")
		return
	}
	metrics.IncRegistration()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": created.Token})
}

// customerView is the self-service slice of the record returned on
// login and session restore.
func customerView(c *models.Customer) map[string]string {
	return map[string]string{
		"name":            c.Name,
		"family":          c.Family,
		"householdIncome": c.HouseholdIncome,
		"propertyType":    c.PropertyType,
		"purpose":         c.Purpose,
		"searchReason":    c.SearchReason,
		"area":            c.Area,
		"budget":          c.Budget,
		"freeComment":     c.FreeComment,
		"email":           c.Email,
		"phone":           c.Phone,
	}
}

func transcriptOrEmpty(messages []models.ChatMessage) []models.ChatMessage {
	if messages == nil {
		return []models.ChatMessage{}
	}
	return messages
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	c, needsPassword, err := s.customers.Login(body.Email, body.Password)
	switch {
	case errors.Is(err, service.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, "メールアドレスを入力してください")
		return
	case errors.Is(err, service.ErrBlocked):
		writeError(w, http.StatusForbidden, "このアカウントはブロックされています")
		return
	case err != nil:
		writeError(w, http.StatusUnauthorized, "メールアドレスまたはパスワードが正しくありません")
		return
	}

	resp := map[string]any{
		"success":           true,
		"token":             c.Token,
		"customer":          customerView(c),
		"chatHistory":       transcriptOrEmpty(c.ChatHistory),
		"directChatHistory": transcriptOrEmpty(c.DirectChatHistory),
	}
	if needsPassword {
		resp["needsPassword"] = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	c, err := s.customers.Session(r.PathValue("token"))
	switch {
	case errors.Is(err, service.ErrBlocked):
		writeJSON(w, http.StatusOK, map[string]any{"found": true, "blocked": true})
		return
	case err != nil:
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"found":             true,
		"customer":          customerView(c),
		"chatHistory":       transcriptOrEmpty(c.ChatHistory),
		"directChatHistory": transcriptOrEmpty(c.DirectChatHistory),
	})
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	c, err := s.customers.Profile(r.PathValue("token"))
	if err != nil {
		writeProfileError(w, err)
		return
	}

	profile := make(map[string]any, len(models.CustomerEditableFields)+1)
	for _, key := range models.CustomerEditableFields {
		value, _ := models.Field(c, key)
		profile[key] = value
	}
	profile["stage"] = c.EffectiveStage()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": profile})
}

func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if !decodeJSON(w, r, &updates) {
		return
	}

	_, changed, err := s.customers.UpdateProfile(r.PathValue("token"), updates)
	if err != nil {
		writeProfileError(w, err)
		return
	}
	if changed == nil {
		changed = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "保存しました", "changed": changed})
}

func (s *Server) handleAdvanceStage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Stage int `json:"stage"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	stage, err := s.customers.AdvanceStage(r.PathValue("token"), body.Stage)
	switch {
	case errors.Is(err, service.ErrStageNotAllowed):
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "ステージ変更できません", "stage": stage})
		return
	case err != nil:
		writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stage": stage})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NewPassword string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	err := s.customers.ChangePassword(r.PathValue("token"), body.NewPassword)
	switch {
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "パスワードは6文字以上で入力してください")
		return
	case err != nil:
		writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "パスワードを変更しました"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	reset, err := s.customers.ResetPassword(body.Email, body.NewPassword)
	switch {
	case errors.Is(err, service.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, "メールアドレスを入力してください")
		return
	case errors.Is(err, service.ErrEmailNotRegistered):
		writeError(w, http.StatusNotFound, "このメールアドレスは登録されていません")
		return
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "パスワードは6文字以上で入力してください")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
		return
	}

	if !reset {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "verified": true, "message": "メールアドレスが確認できました"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "reset": true, "message": "パスワードを再設定しました"})
}

func (s *Server) handleSaveChatHistory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := s.engage.SaveChatHistory(r.PathValue("token"), body.Messages); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleSaveDirectChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := s.engage.SaveDirectChat(r.PathValue("token"), body.Messages); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	already, err := s.customers.Withdraw(r.PathValue("token"))
	if err != nil {
		writeError(w, http.StatusNotFound, "アカウントが見つかりません")
		return
	}
	if already {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "すでに退会済みです"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ご利用ありがとうございました。退会処理が完了しました。"})
}

func writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
	}
}
