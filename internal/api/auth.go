package api

import "net/http"

// adminOnly gates console endpoints behind the x-admin-pass header.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.settings.VerifyAdminPassword(r.Header.Get("x-admin-pass")) {
			writeError(w, http.StatusUnauthorized, "認証エラー: パスワードが正しくありません")
			return
		}
		next(w, r)
	}
}
