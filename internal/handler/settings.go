package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/randpass/randpass-go/internal/model"
	"github.com/randpass/randpass-go/internal/service"
)

// SettingsHandler serves the operator settings endpoints.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// HandleGet handles GET /api/v1/settings requests.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Snapshot(r.Context()))
}

// HandleUpdate handles PUT /api/v1/settings requests.
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	patch := model.NewOptions()
	if err := decodeJSON(w, r, patch); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Update(r.Context(), patch)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettings) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("settings update failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleActivate handles POST /api/v1/settings/activate requests.
func (h *SettingsHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Activate(r.Context())
	if err != nil {
		slog.Error("settings activation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDeactivate handles DELETE /api/v1/settings requests.
func (h *SettingsHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context()); err != nil {
		slog.Error("settings deactivation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
