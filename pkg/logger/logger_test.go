package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/frahmantamala/ecommerce-backend/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	It("parses configured levels", func() {
		Expect(logger.ParseLevel("debug")).To(Equal(slog.LevelDebug))
		Expect(logger.ParseLevel("WARN")).To(Equal(slog.LevelWarn))
		Expect(logger.ParseLevel("error")).To(Equal(slog.LevelError))
		Expect(logger.ParseLevel("unknown")).To(Equal(slog.LevelInfo))
	})

	It("installs the built logger as default", func() {
		l := logger.Init("error", "json")
		Expect(l).NotTo(BeNil())
		Expect(logger.LoggerWrapper()).To(BeIdenticalTo(l))
		Expect(l.Enabled(context.Background(), slog.LevelInfo)).To(BeFalse())
	})

	It("falls back to the default logger when context carries none", func() {
		Expect(logger.From(context.Background())).To(BeIdenticalTo(logger.LoggerWrapper()))
	})

	It("returns the request-scoped logger stored by With", func() {
		ctx := logger.With(context.Background(), "traceID", "abc")
		Expect(logger.From(ctx)).NotTo(BeIdenticalTo(logger.LoggerWrapper()))
	})

	It("keeps the trace id readable from context", func() {
		ctx := logger.WithTraceID(context.Background(), "trace-1")
		Expect(logger.TraceID(ctx)).To(Equal("trace-1"))
		Expect(logger.TraceID(context.Background())).To(BeEmpty())
	})
})
