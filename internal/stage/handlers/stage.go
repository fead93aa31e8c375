package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"life-server/internal/middleware"
	"life-server/internal/shared/errors"
	"life-server/internal/shared/response"
	"life-server/internal/stage"
	"life-server/internal/store"
)

type StageHandler struct {
	store *store.Store
}

func NewStageHandler(st *store.Store) *StageHandler {
	return &StageHandler{store: st}
}

// List returns the catalog filtered by visibility: published stages for
// everyone, the full catalog for admins.
func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_stages")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	stages := h.store.VisibleStages(claims.IsAdmin())
	response.Success(w, http.StatusOK, stages)
}

// Get returns a single stage. Unpublished stages are reported as not
// found to non-admins, indistinguishable from missing ones.
func (h *StageHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_stage")

	if r.Method != http.MethodGet {
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

	found, ok := h.store.StageByID(stageID)
	if !ok || !found.Visible(claims.IsAdmin()) {
		response.Error(w, r, logger, errors.NotFoundf("stage not found with id: %s", stageID))
		return
	}

	response.Success(w, http.StatusOK, found)
}

// Replace overwrites the stage catalog wholesale. The admin dashboard
// is the sole caller and is responsible for ID stability across the
// replacement.
func (h *StageHandler) Replace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "replace_stages")

	if r.Method != http.MethodPut {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var stages []stage.Stage
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20) // 8 MB
	if err := json.NewDecoder(r.Body).Decode(&stages); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	if err := stage.Validate(stages); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	h.store.ReplaceStages(ctx, stages)

	logger.Info("Stage catalog replaced", "count", len(stages))
	response.Success(w, http.StatusOK, stages)
}
