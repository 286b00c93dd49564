package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apierrors "cargolens/internal/errors"
	custommw "cargolens/internal/middleware"
	v1 "cargolens/pkg/contracts/api/v1"
)

// ClientLogHandler forwards browser-side log lines from the upload page
// into the server's structured log.
type ClientLogHandler struct {
	validate *custommw.ValidationMiddleware
	logger   *slog.Logger
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(validate *custommw.ValidationMiddleware, logger *slog.Logger) *ClientLogHandler {
	return &ClientLogHandler{
		validate: validate,
		logger:   logger.With(slog.String("handler", "client_log")),
	}
}

// Handle processes client logging requests
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req v1.ClientLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, apierrors.NewValidationError("Invalid request format"))
		return
	}

	if err := h.validate.ValidateStruct(&req); err != nil {
		var apiErr *apierrors.APIError
		if !errors.As(err, &apiErr) {
			apiErr = apierrors.NewValidationError(err.Error())
		}
		apierrors.WriteError(w, apiErr)
		return
	}

	attrs := []slog.Attr{
		slog.String("client_source", req.Source),
		slog.String("timestamp", time.Now().Format(time.RFC3339)),
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}

	var level slog.Level
	switch req.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	h.logger.LogAttrs(r.Context(), level, req.Message, attrs...)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
	})
}
