package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
	EventTypePaymentRefunded  = "payment.refunded"
	EventTypePaymentCancelled = "payment.cancelled"
	EventTypeOrderPaid        = "order.paid"
)

// PaymentEvent carries a payment status change. Amounts are decimal strings.
type PaymentEvent struct {
	BaseEvent
	PaymentID     int64  `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	Amount        string `json:"amount"`
	Method        string `json:"method"`
	Status        string `json:"status"`
}

func newPaymentEvent(eventType string, paymentID int64, transactionID string, userID int64, amount, method, status string) *PaymentEvent {
	return &PaymentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":     paymentID,
				"transaction_id": transactionID,
				"user_id":        userID,
				"amount":         amount,
				"method":         method,
				"status":         status,
			},
		},
		PaymentID:     paymentID,
		TransactionID: transactionID,
		UserID:        userID,
		Amount:        amount,
		Method:        method,
		Status:        status,
	}
}

func NewPaymentCompletedEvent(paymentID int64, transactionID string, userID int64, amount, method string) *PaymentEvent {
	return newPaymentEvent(EventTypePaymentCompleted, paymentID, transactionID, userID, amount, method, "completed")
}

func NewPaymentFailedEvent(paymentID int64, transactionID string, userID int64, amount, method, failureReason string) *PaymentEvent {
	e := newPaymentEvent(EventTypePaymentFailed, paymentID, transactionID, userID, amount, method, "failed")
	e.Data["failure_reason"] = failureReason
	return e
}

func NewPaymentRefundedEvent(paymentID int64, transactionID string, userID int64, amount, method, status, refundAmount string) *PaymentEvent {
	e := newPaymentEvent(EventTypePaymentRefunded, paymentID, transactionID, userID, amount, method, status)
	e.Data["refund_amount"] = refundAmount
	return e
}

func NewPaymentCancelledEvent(paymentID int64, transactionID string, userID int64, amount, method string) *PaymentEvent {
	return newPaymentEvent(EventTypePaymentCancelled, paymentID, transactionID, userID, amount, method, "cancelled")
}

type OrderPaidEvent struct {
	BaseEvent
	OrderID   int64 `json:"order_id"`
	PaymentID int64 `json:"payment_id"`
}

func NewOrderPaidEvent(orderID, paymentID int64) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderPaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":   orderID,
				"payment_id": paymentID,
			},
		},
		OrderID:   orderID,
		PaymentID: paymentID,
	}
}
