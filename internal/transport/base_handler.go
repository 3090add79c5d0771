package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a plain error envelope with the given status.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.WriteJSON(w, status, map[string]interface{}{
		"code":    status,
		"message": message,
		"detail":  message,
	})
}

// HandleError writes an AppError using its own status code.
func (h *BaseHandler) HandleError(w http.ResponseWriter, appErr *apperrors.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "code", appErr.Code, "error", appErr.Error())
	} else {
		h.Logger.Warn("request rejected", "status", status, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps service errors to responses. Anything that is not
// an AppError becomes a 500 without leaking the cause.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.IsAppError(err); ok {
		h.HandleError(w, appErr)
		return
	}
	h.HandleError(w, apperrors.NewInternalError("Internal server error", err))
}

// DecodeJSON decodes the request body into dst, answering 400 on failure.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil {
		h.HandleError(w, apperrors.NewValidationError("request body is required", apperrors.ErrCodeInvalidRequest))
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		h.Logger.Warn("invalid request body", "error", err, "path", r.URL.Path)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeInvalidRequest))
		return false
	}
	return true
}

// URLParamInt64 parses a positive integer chi URL parameter.
func (h *BaseHandler) URLParamInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.HandleError(w, apperrors.NewValidationFieldError(name, "A valid integer is required.", apperrors.ErrCodeInvalidRequest))
		return 0, false
	}
	return id, true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(prefix):])
}
