package handlers

import (
	"log/slog"
	"net/http"

	"life-server/internal/auth"
	"life-server/internal/shared/cookies"
	"life-server/internal/shared/response"
	"life-server/internal/store"
)

type LogoutHandler struct {
	store *store.Store
}

func NewLogoutHandler(st *store.Store) *LogoutHandler {
	return &LogoutHandler{store: st}
}

// ServeHTTP clears the session cookie and removes the durable user
// record. It never fails: an unauthenticated logout is a no-op.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "logout")

	if cookie, err := r.Cookie(cookies.AuthCookieName); err == nil {
		if claims, err := auth.ValidateJWT(cookie.Value); err == nil {
			h.store.Logout(ctx, claims.Nickname)
			logger.Info("User logged out", "nickname", claims.Nickname)
		}
	}

	cookies.ClearAuthCookie(w)
	response.Success(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
