package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"life-server/internal/auth"
	"life-server/internal/shared/config"
	"life-server/internal/shared/cookies"
	"life-server/internal/shared/errors"
	"life-server/internal/shared/response"
	"life-server/internal/store"
)

type LoginRequest struct {
	Nickname   string `json:"nickname"`
	Admin      bool   `json:"admin"`
	Passphrase string `json:"passphrase"`
}

type LoginResponse struct {
	Nickname string `json:"nickname"`
	IsAdmin  bool   `json:"isAdmin"`
}

type LoginHandler struct {
	store      *store.Store
	authorizer auth.Authorizer
}

func NewLoginHandler(st *store.Store, authorizer auth.Authorizer) *LoginHandler {
	return &LoginHandler{store: st, authorizer: authorizer}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "login")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req LoginRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	req.Nickname = strings.TrimSpace(req.Nickname)
	if req.Nickname == "" {
		response.Error(w, r, logger, errors.Validation("nickname is required"))
		return
	}

	if req.Admin && !h.authorizer.GrantAdmin(req.Passphrase) {
		response.Error(w, r, logger, errors.Unauthorized("invalid administrative key"))
		return
	}

	user, ok := h.store.Login(ctx, req.Nickname, req.Admin)
	if !ok {
		response.Error(w, r, logger, errors.Validation("nickname is required"))
		return
	}

	token, err := auth.GenerateJWT(user.Nickname, user.IsAdmin, config.GlobalConfig.Auth.TokenExpiration)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to generate session token", err))
		return
	}

	cookies.SetAuthCookie(w, token)

	logger.Info("User logged in", "nickname", user.Nickname, "is_admin", user.IsAdmin)
	response.Success(w, http.StatusOK, LoginResponse{
		Nickname: user.Nickname,
		IsAdmin:  user.IsAdmin,
	})
}
