package auth

import (
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/transport"
	"github.com/frahmantamala/ecommerce-backend/pkg/logger"
)

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

// Login handles POST /account/login/
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// RefreshToken handles POST /account/token/refresh/
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// AuthMiddleware requires a valid access token and stores the user in the
// request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleError(w, apperrors.ErrMissingToken)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		user, err := h.Service.GetActiveUser(r.Context(), claims.UserID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		ctx = logger.With(ctx, "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
