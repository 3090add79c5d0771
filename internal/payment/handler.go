package payment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	"github.com/frahmantamala/ecommerce-backend/internal/transport"
)

type ServiceAPI interface {
	SubmitBkash(ctx context.Context, actor *auth.User, req *BkashPaymentRequest) (*SubmitResponse, error)
	SubmitCard(ctx context.Context, actor *auth.User, req *CardPaymentRequest) (*SubmitResponse, error)
	Process(ctx context.Context, actor *auth.User, req *ProcessPaymentRequest) (*SubmitResponse, error)
	MockPayment(ctx context.Context, actor *auth.User, req *MockPaymentRequest) (*MockPaymentResponse, error)
	GetByID(ctx context.Context, actor *auth.User, id int64) (*PaymentDetail, error)
	GetByTransactionID(ctx context.Context, actor *auth.User, transactionID string) (*PaymentDetail, error)
	ListForUser(ctx context.Context, actor *auth.User) ([]*PaymentDetail, error)
	ListAll(ctx context.Context, actor *auth.User) ([]*PaymentDetail, error)
	Refund(ctx context.Context, actor *auth.User, id int64, req *RefundRequest) (*PaymentDetail, error)
	Cancel(ctx context.Context, actor *auth.User, id int64, req *CancelRequest) (*PaymentDetail, error)
}

type Handler struct {
	*transport.BaseHandler
	PaymentService ServiceAPI
}

func NewHandler(paymentService ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(logger),
		PaymentService: paymentService,
	}
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Warn("payment request without authenticated user", "path", r.URL.Path)
		h.HandleError(w, apperrors.ErrMissingToken)
		return nil, false
	}
	return user, true
}

// SubmitBkash handles POST /payments/bkash/
func (h *Handler) SubmitBkash(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req BkashPaymentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := apperrors.WithTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.PaymentService.SubmitBkash(ctx, user, &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// SubmitCard handles POST /payments/card/
func (h *Handler) SubmitCard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req CardPaymentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := apperrors.WithTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.PaymentService.SubmitCard(ctx, user, &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Process handles POST /payments/process/
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req ProcessPaymentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := apperrors.WithTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.PaymentService.Process(ctx, user, &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// MockPayment handles POST /payments/mock-payment/
func (h *Handler) MockPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req MockPaymentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := apperrors.WithTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.PaymentService.MockPayment(ctx, user, &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// History handles GET /payments/history/
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	payments, err := h.PaymentService.ListForUser(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, payments)
}

// Detail handles GET /payments/detail/{id}/
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.URLParamInt64(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.PaymentService.GetByID(r.Context(), user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

// Status handles GET /payments/status/{transaction_id}/
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	detail, err := h.PaymentService.GetByTransactionID(r.Context(), user, chi.URLParam(r, "transaction_id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

// AdminAll handles GET /payments/admin/all/
func (h *Handler) AdminAll(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	payments, err := h.PaymentService.ListAll(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, payments)
}

// Refund handles POST /payments/{id}/refund/
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.URLParamInt64(w, r, "id")
	if !ok {
		return
	}

	var req RefundRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := apperrors.WithTimeout(r.Context(), 0)
	defer cancel()

	detail, err := h.PaymentService.Refund(ctx, user, id, &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

// Cancel handles POST /payments/{id}/cancel/
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.URLParamInt64(w, r, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := apperrors.WithTimeout(r.Context(), 0)
	defer cancel()

	detail, err := h.PaymentService.Cancel(ctx, user, id, &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}
