package order

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	"github.com/frahmantamala/ecommerce-backend/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, actor *auth.User) ([]*Order, error)
	Get(ctx context.Context, actor *auth.User, id int64) (*Order, error)
	ChangeDeliveryStatus(ctx context.Context, actor *auth.User, id int64, dto ChangeDeliveryStatusDTO) (*Order, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, apperrors.ErrMissingToken)
	}
	return user, ok
}

// ListOrders handles GET /account/orders/
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	orders, err := h.Service.List(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, o.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetOrder handles GET /account/orders/{id}/
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.URLParamInt64(w, r, "id")
	if !ok {
		return
	}

	o, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, o.ToResponse())
}

// ChangeDeliveryStatus handles PUT /account/change-order-status/{id}/
func (h *Handler) ChangeDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.URLParamInt64(w, r, "id")
	if !ok {
		return
	}

	var dto ChangeDeliveryStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	o, err := h.Service.ChangeDeliveryStatus(r.Context(), user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, o.ToResponse())
}
