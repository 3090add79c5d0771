package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS wraps go-chi/cors. An empty list or "*" allows every origin, in which
// case credentials are not advertised.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := len(allowedOrigins) == 0
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			wildcard = true
		}
		origins = append(origins, o)
	}
	if wildcard {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", TraceIDHeader},
		ExposedHeaders:   []string{TraceIDHeader},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}
