package user

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	"github.com/frahmantamala/ecommerce-backend/internal/transport"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetProfile handles GET /account/profile/
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Warn("GetProfile: user not found in context")
		h.HandleError(w, apperrors.ErrMissingToken)
		return
	}

	u, err := h.Service.GetByID(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToProfile())
}
