package handlers

import (
	"log/slog"
	"net/http"

	"life-server/internal/middleware"
	"life-server/internal/shared/errors"
	"life-server/internal/shared/response"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"nickname": claims.Nickname,
		"isAdmin":  claims.IsAdmin(),
	})
}
