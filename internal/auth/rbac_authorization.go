package auth

import (
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/transport"
)

// StaffAuthorization guards routes that only staff accounts may use. It must
// run after AuthMiddleware.
type StaffAuthorization struct {
	*transport.BaseHandler
}

func NewStaffAuthorization(logger *slog.Logger) *StaffAuthorization {
	return &StaffAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (sa *StaffAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				sa.Logger.Warn("authorization check failed: user not found in context")
				sa.HandleError(w, apperrors.ErrMissingToken)
				return
			}

			if !user.IsStaff {
				sa.Logger.WarnContext(r.Context(), "access denied: staff required",
					"user_id", user.ID,
					"path", r.URL.Path)
				sa.HandleError(w, apperrors.ErrStaffRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
