package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/ecommerce-backend/internal/core/events"
	"github.com/frahmantamala/ecommerce-backend/internal/payment"
	"github.com/frahmantamala/ecommerce-backend/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish sample payment and order events through the audit handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a sample event of the given type (payment.completed, payment.failed, payment.refunded, payment.cancelled, order.paid)`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var eventData string

func sampleEvent(eventType string) (events.Event, error) {
	const (
		paymentID = int64(1)
		userID    = int64(1)
		amount    = "150.00"
	)
	transactionID := fmt.Sprintf("TEST%d", time.Now().Unix())

	switch eventType {
	case events.EventTypePaymentCompleted:
		return events.NewPaymentCompletedEvent(paymentID, transactionID, userID, amount, "bkash"), nil
	case events.EventTypePaymentFailed:
		return events.NewPaymentFailedEvent(paymentID, transactionID, userID, amount, "card", eventData), nil
	case events.EventTypePaymentRefunded:
		return events.NewPaymentRefundedEvent(paymentID, transactionID, userID, amount, "bkash", "refunded", amount), nil
	case events.EventTypePaymentCancelled:
		return events.NewPaymentCancelledEvent(paymentID, transactionID, userID, amount, "bkash"), nil
	case events.EventTypeOrderPaid:
		return events.NewOrderPaidEvent(1, paymentID), nil
	}
	return nil, fmt.Errorf("unknown event type %q", eventType)
}

func publishTestEvent(eventType string) error {
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	payment.NewAuditHandler(lg).RegisterEventHandlers(eventBus)

	event, err := sampleEvent(eventType)
	if err != nil {
		return err
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())

	if err := eventBus.PublishSync(context.Background(), event); err != nil {
		lg.Error("failed to publish event", "error", err)
		return err
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "Payment declined by gateway", "Failure reason for payment.failed")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
