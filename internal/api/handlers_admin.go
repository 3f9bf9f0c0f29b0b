package api

import (
	"errors"
	"fmt"
	"net/http"

	"leadnavi/internal/metrics"
	"leadnavi/internal/models"
	"leadnavi/internal/service"
)

func dashDefault(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func (s *Server) handleAdminCustomers(w http.ResponseWriter, r *http.Request) {
	all := s.customers.List()
	customers := make([]map[string]any, 0, len(all))
	for _, c := range all {
		tags := c.Tags
		if tags == nil {
			tags = []string{}
		}
		customers = append(customers, map[string]any{
			"token":           c.Token,
			"name":            dashDefault(c.Name),
			"email":           dashDefault(c.Email),
			"phone":           dashDefault(c.Phone),
			"family":          dashDefault(c.Family),
			"area":            dashDefault(c.Area),
			"budget":          dashDefault(c.Budget),
			"status":          c.EffectiveStatus(),
			"createdAt":       c.CreatedAt,
			"blockedAt":       c.BlockedAt,
			"withdrawnAt":     c.WithdrawnAt,
			"messageCount":    len(c.ChatHistory),
			"directChatCount": len(c.DirectChatHistory),
			"tags":            tags,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
}

func (s *Server) handleAdminBlock(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	c, err := s.customers.Get(token)
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	if err := s.customers.Block(token); err != nil {
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": fmt.Sprintf("%sさんをブロックしました", c.Name)})
}

func (s *Server) handleAdminUnblock(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	c, err := s.customers.Get(token)
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	if err := s.customers.Unblock(token); err != nil {
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": fmt.Sprintf("%sさんのブロックを解除しました", c.Name)})
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	c, err := s.customers.Get(token)
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	if err := s.customers.Delete(token); err != nil {
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": fmt.Sprintf("%sさんのデータを完全に削除しました", c.Name)})
}

func (s *Server) handleAdminChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.CurrentPassword == "" || body.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "現在のパスワードと新しいパスワードが必要です")
		return
	}

	err := s.settings.ChangeAdminPassword(body.CurrentPassword, body.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "現在のパスワードが正しくありません")
		return
	case errors.Is(err, service.ErrAdminPasswordTooShort):
		writeError(w, http.StatusBadRequest, "新しいパスワードは4文字以上である必要があります")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "パスワードが正常に変更されました"})
}

func (s *Server) handleAdminDirectChatGet(w http.ResponseWriter, r *http.Request) {
	messages, err := s.engage.DirectChat(r.PathValue("token"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) handleAdminDirectChatPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	err := s.engage.AgentMessage(r.PathValue("token"), body.Message)
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "empty message")
		return
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAdminTags(w http.ResponseWriter, r *http.Request) {
	tags := s.tags.List()
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (s *Server) handleAdminTagCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Color    string `json:"color"`
		Category string `json:"category"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	tag, err := s.tags.Create(body.Name, body.Color, body.Category)
	switch {
	case errors.Is(err, service.ErrEmptyTagName):
		writeError(w, http.StatusBadRequest, "タグ名を入力してください")
		return
	case errors.Is(err, service.ErrDuplicateTagName):
		writeError(w, http.StatusBadRequest, "同名のタグが既に存在します")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tag": tag})
}

func (s *Server) handleAdminTagDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tags.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "タグが見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAdminCustomerTags(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tags []string `json:"tags"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	tags, err := s.tags.SetCustomerTags(r.PathValue("token"), body.Tags)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tags": tags})
}

func (s *Server) handleAdminBroadcasts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"broadcasts": s.broadcast.History()})
}

func (s *Server) handleAdminBroadcastPreview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FilterType string   `json:"filterType"`
		FilterTags []string `json:"filterTags"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	matched, err := s.broadcast.Preview(body.FilterType, body.FilterTags)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	preview := make([]map[string]string, 0, len(matched))
	for _, c := range matched {
		name := c.Name
		if name == "" {
			name = "未入力"
		}
		preview = append(preview, map[string]string{"token": c.Token, "name": name, "email": c.Email})
	}
	writeJSON(w, http.StatusOK, map[string]any{"matchCount": len(matched), "customers": preview})
}

func (s *Server) handleAdminBroadcastSend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message    string   `json:"message"`
		FilterType string   `json:"filterType"`
		FilterTags []string `json:"filterTags"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	broadcast, err := s.broadcast.Send(body.Message, body.FilterType, body.FilterTags)
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "メッセージを入力してください")
		return
	case errors.Is(err, service.ErrNoRecipients):
		writeError(w, http.StatusBadRequest, "配信対象のお客様がいません")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.IncBroadcast()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "broadcastId": broadcast.ID, "sentCount": broadcast.RecipientCount})
}

func (s *Server) handleAdminCustomerGet(w http.ResponseWriter, r *http.Request) {
	c, err := s.customers.Get(r.PathValue("token"))
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer": c})
}

func (s *Server) handleAdminCustomerPut(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if !decodeJSON(w, r, &updates) {
		return
	}

	fields := make(map[string]string)
	for key, value := range updates {
		if str, ok := value.(string); ok {
			fields[key] = str
		}
	}
	var stage, age *int
	if v, ok := updates["stage"].(float64); ok {
		n := int(v)
		stage = &n
	}
	if v, ok := updates["age"].(float64); ok {
		n := int(v)
		age = &n
	}

	if _, err := s.customers.AdminUpdate(r.PathValue("token"), fields, stage, age); err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "保存しました"})
}

func (s *Server) handleAdminInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := s.engage.Interactions(r.PathValue("token"))
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interactions": interactions})
}

func (s *Server) handleAdminInteractionAdd(w http.ResponseWriter, r *http.Request) {
	var in models.Interaction
	if !decodeJSON(w, r, &in) {
		return
	}

	created, err := s.engage.AddInteraction(r.PathValue("token"), in)
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "interaction": created})
}

func (s *Server) handleAdminInteractionDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.engage.DeleteInteraction(r.PathValue("token"), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAdminTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.engage.Todos(r.PathValue("token"))
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

func (s *Server) handleAdminTodoAdd(w http.ResponseWriter, r *http.Request) {
	var todo models.Todo
	if !decodeJSON(w, r, &todo) {
		return
	}

	created, err := s.engage.AddTodo(r.PathValue("token"), todo)
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "todo": created})
}

func (s *Server) handleAdminTodoUpdate(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if _, err := s.customers.Get(token); err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}

	var patch service.TodoPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	todo, err := s.engage.UpdateTodo(token, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, http.StatusNotFound, "TODOが見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "todo": todo})
}

func (s *Server) handleAdminTodoDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.engage.DeleteTodo(r.PathValue("token"), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAdminChecklistGet(w http.ResponseWriter, r *http.Request) {
	checklist, err := s.engage.Checklist(r.PathValue("token"))
	if err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"checklist": checklist})
}

func (s *Server) handleAdminChecklistPut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Checklist []models.ChecklistPhase `json:"checklist"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if err := s.engage.PutChecklist(r.PathValue("token"), body.Checklist); err != nil {
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAdminChecklistTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"template": models.ChecklistTemplate()})
}

func (s *Server) handleAdminApplyExtracted(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	err := s.engage.ApplyExtracted(r.PathValue("token"), body.Fields)
	switch {
	case errors.Is(err, service.ErrInvalidFields):
		writeError(w, http.StatusBadRequest, "Invalid fields")
		return
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "お客様が見つかりません")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "サーバーエラーが発生しました")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "情報を適用しました"})
}
