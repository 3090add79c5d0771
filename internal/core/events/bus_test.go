package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"

	"github.com/frahmantamala/ecommerce-backend/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		ctx context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		ctx = context.Background()
	})

	It("delivers synchronously to every handler of the type", func() {
		var received []string
		bus.Subscribe(events.EventTypePaymentCompleted, func(_ context.Context, e events.Event) error {
			received = append(received, "first:"+e.EventType())
			return nil
		})
		bus.Subscribe(events.EventTypePaymentCompleted, func(_ context.Context, e events.Event) error {
			received = append(received, "second:"+e.EventType())
			return nil
		})

		err := bus.PublishSync(ctx, events.NewPaymentCompletedEvent(1, "BKS1", 2, "150.00", "bkash"))
		Expect(err).NotTo(HaveOccurred())
		Expect(received).To(Equal([]string{"first:payment.completed", "second:payment.completed"}))
		Expect(bus.HandlerCount(events.EventTypePaymentCompleted)).To(Equal(2))
	})

	It("keeps running handlers after one fails and joins the errors", func() {
		var calls int
		bus.Subscribe(events.EventTypeOrderPaid, func(context.Context, events.Event) error {
			calls++
			return errors.New("boom")
		})
		bus.Subscribe(events.EventTypeOrderPaid, func(context.Context, events.Event) error {
			calls++
			return nil
		})

		err := bus.PublishSync(ctx, events.NewOrderPaidEvent(10, 20))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("boom"))
		Expect(calls).To(Equal(2))
	})

	It("ignores events with no subscribers", func() {
		Expect(bus.PublishSync(ctx, events.NewOrderPaidEvent(1, 1))).To(Succeed())
		bus.Publish(ctx, events.NewOrderPaidEvent(1, 1)).Wait()
	})

	It("fans out asynchronously with Publish", func() {
		var count int32
		for i := 0; i < 3; i++ {
			bus.Subscribe("test.event", func(context.Context, events.Event) error {
				atomic.AddInt32(&count, 1)
				return nil
			})
		}

		bus.Publish(ctx, events.BaseEvent{ID: "1", Type: "test.event"}).Wait()
		Expect(atomic.LoadInt32(&count)).To(Equal(int32(3)))
	})

	It("builds payment events with their payload", func() {
		e := events.NewPaymentFailedEvent(5, "VISA1", 3, "10.00", "visa", "declined")
		Expect(e.EventID()).NotTo(BeEmpty())
		data := e.Payload().(map[string]interface{})
		Expect(data["failure_reason"]).To(Equal("declined"))
		Expect(data["transaction_id"]).To(Equal("VISA1"))
		Expect(e.Status).To(Equal("failed"))
	})
})
