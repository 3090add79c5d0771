package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/ecommerce-backend/internal/core/events"
)

// AuditHandler writes every payment and order event to the structured log.
type AuditHandler struct {
	logger *slog.Logger
}

func NewAuditHandler(logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		logger: logger,
	}
}

func (h *AuditHandler) HandlePaymentEvent(ctx context.Context, event events.Event) error {
	paymentEvent, ok := event.(*events.PaymentEvent)
	if !ok {
		h.logger.Error("invalid event type for payment audit handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentEvent, got %T", event)
	}

	attrs := []interface{}{
		"event_type", paymentEvent.EventType(),
		"event_id", paymentEvent.EventID(),
		"payment_id", paymentEvent.PaymentID,
		"transaction_id", paymentEvent.TransactionID,
		"user_id", paymentEvent.UserID,
		"amount", paymentEvent.Amount,
		"method", paymentEvent.Method,
		"status", paymentEvent.Status,
	}
	if reason, ok := paymentEvent.Data["failure_reason"]; ok {
		attrs = append(attrs, "failure_reason", reason)
	}
	if refund, ok := paymentEvent.Data["refund_amount"]; ok {
		attrs = append(attrs, "refund_amount", refund)
	}

	h.logger.InfoContext(ctx, "payment audit", attrs...)
	return nil
}

func (h *AuditHandler) HandleOrderPaid(ctx context.Context, event events.Event) error {
	orderEvent, ok := event.(*events.OrderPaidEvent)
	if !ok {
		h.logger.Error("invalid event type for order paid handler", "event_type", event.EventType())
		return fmt.Errorf("expected OrderPaidEvent, got %T", event)
	}

	h.logger.InfoContext(ctx, "order paid",
		"event_id", orderEvent.EventID(),
		"order_id", orderEvent.OrderID,
		"payment_id", orderEvent.PaymentID)
	return nil
}

func (h *AuditHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	paymentTypes := []string{
		events.EventTypePaymentCompleted,
		events.EventTypePaymentFailed,
		events.EventTypePaymentRefunded,
		events.EventTypePaymentCancelled,
	}
	for _, t := range paymentTypes {
		eventBus.Subscribe(t, h.HandlePaymentEvent)
	}
	eventBus.Subscribe(events.EventTypeOrderPaid, h.HandleOrderPaid)

	h.logger.Info("payment audit handlers registered",
		"handlers", append(paymentTypes, events.EventTypeOrderPaid))
}
