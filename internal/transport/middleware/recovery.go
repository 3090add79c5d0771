package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	applogger "github.com/frahmantamala/ecommerce-backend/pkg/logger"
)

// RecoveryMiddleware provides panic recovery with detailed logging
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"trace_id", applogger.TraceID(r.Context()),
						"stack", string(debug.Stack()))

					status, body := apperrors.NewInternalError("Internal server error", nil).ToHTTPResponse()
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(status)
					_ = json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
