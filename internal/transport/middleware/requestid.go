package middleware

import (
	"net/http"

	"github.com/frahmantamala/ecommerce-backend/pkg/logger"

	"github.com/google/uuid"
)

const TraceIDHeader = "X-Trace-ID"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.WithTraceID(r.Context(), traceID)

		// propagate back to response
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
