package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/randpass/randpass-go/internal/middleware"
	"github.com/randpass/randpass-go/internal/model"
	"github.com/randpass/randpass-go/internal/service"
)

// GeneratorHandler handles HTTP requests for password generation.
type GeneratorHandler struct {
	settings  *service.SettingsService
	generator *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(settings *service.SettingsService, generator *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{settings: settings, generator: generator}
}

// HandleGenerate handles POST /api/v1/generate requests. The request body is
// ignored. Remote failures are reported with status -1 and HTTP 200.
func (h *GeneratorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	settings := h.settings.Resolve(r.Context())
	result := h.generator.Generate(r.Context(), settings)

	if !result.OK() {
		slog.Warn("password generation failed",
			"source", result.Source,
			"error", result.ErrorMessage,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
	} else {
		slog.Debug("password generated",
			"source", result.Source,
			"length", result.LengthUsed,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
	}

	resp := newGenerateResponse(settings, result)
	execution := time.Since(result.Begin).Milliseconds()
	resp.Time.Execution = &execution

	writeJSON(w, http.StatusOK, resp)
}

// HandleQuota handles GET /api/v1/quota requests.
func (h *GeneratorHandler) HandleQuota(w http.ResponseWriter, r *http.Request) {
	resp, err := h.generator.RemoteQuota(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrRemoteUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse(err.Error()))
			return
		}
		slog.Warn("quota lookup failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func newGenerateResponse(settings model.Settings, result model.GenerationResult) model.GenerateResponse {
	resp := model.GenerateResponse{
		Status: result.Status,
		Debug:  settings.Debug,
		Time:   model.ResponseTime{Begin: result.Begin.Unix()},
		Length: result.LengthUsed,
		API:    model.ResponseAPI{DB: model.SourceLocalFallback},
	}
	if settings.UseRemoteAPI {
		resp.API.DB = model.SourceRemoteService
	}

	if result.OK() {
		resp.Result = result.Password
	} else {
		resp.Result = result.ErrorMessage
	}

	if settings.Debug {
		resp.API.Used = result.Source
		if result.Diagnostics != nil {
			bits := result.Diagnostics.BitsUsed()
			resp.Bits = &bits
		}
	}
	return resp
}
