package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"life-server/internal/middleware"
	"life-server/internal/shared/errors"
	"life-server/internal/shared/response"
	"life-server/internal/store"
)

type LogHandler struct {
	store *store.Store
}

func NewLogHandler(st *store.Store) *LogHandler {
	return &LogHandler{store: st}
}

type createLogRequest struct {
	Content string `json:"content"`
}

type editLogRequest struct {
	Content string `json:"content"`
}

// ListForStage returns the logs attached to a stage, newest first.
// Orphaned logs for deleted stages still resolve here; referential
// integrity is not enforced.
func (h *LogHandler) ListForStage(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_stage_logs")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	stageID := r.PathValue("id")
	if stageID == "" {
		response.Error(w, r, logger, errors.Validation("stage ID is required"))
		return
	}

	response.Success(w, http.StatusOK, h.store.LogsForStage(stageID))
}

// Create attaches a new log to a stage under the session's nickname.
func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_log")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	stageID := r.PathValue("id")
	if stageID == "" {
		response.Error(w, r, logger, errors.Validation("stage ID is required"))
		return
	}

	var req createLogRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		response.Error(w, r, logger, errors.Validation("log content is required"))
		return
	}

	entry := h.store.AddLog(ctx, claims.Nickname, stageID, req.Content)
	if entry == nil {
		response.Error(w, r, logger, errors.Validation("log content is required"))
		return
	}

	logger.Info("Log created", "log_id", entry.ID, "stage_id", stageID, "nickname", claims.Nickname)
	response.Success(w, http.StatusCreated, entry)
}

// Edit replaces the content of a log. Only the authoring nickname may
// edit; ownership is nickname string equality, so users sharing a
// nickname can edit each other's logs.
func (h *LogHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "edit_log")

	if r.Method != http.MethodPut {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	logID := r.PathValue("id")
	entry, ok := h.store.LogByID(logID)
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("log not found with id: %s", logID))
		return
	}

	if entry.Nickname != claims.Nickname {
		response.Error(w, r, logger, errors.Forbidden("only the author may edit a log"))
		return
	}

	var req editLogRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		response.Error(w, r, logger, errors.Validation("log content is required"))
		return
	}

	h.store.EditLog(ctx, logID, req.Content)

	updated, _ := h.store.LogByID(logID)
	response.Success(w, http.StatusOK, updated)
}

// Delete removes a log. Idempotent: deleting a missing log succeeds so
// a double-submit is harmless.
func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "delete_log")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	logID := r.PathValue("id")
	entry, ok := h.store.LogByID(logID)
	if ok {
		if entry.Nickname != claims.Nickname {
			response.Error(w, r, logger, errors.Forbidden("only the author may delete a log"))
			return
		}
		h.store.DeleteLog(ctx, logID)
		logger.Info("Log deleted", "log_id", logID, "nickname", claims.Nickname)
	}

	response.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListMine returns the session user's own logs for the profile view.
func (h *LogHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_my_logs")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	response.Success(w, http.StatusOK, h.store.LogsForAuthor(claims.Nickname))
}
