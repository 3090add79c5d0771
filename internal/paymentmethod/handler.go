package paymentmethod

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ecommerce-backend/internal/transport"
)

type ServiceAPI interface {
	ListActive(ctx context.Context) ([]MethodResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListMethods handles GET /payments/methods/
func (h *Handler) ListMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.Service.ListActive(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, methods)
}
