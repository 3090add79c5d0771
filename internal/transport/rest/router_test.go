package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	"github.com/frahmantamala/ecommerce-backend/internal/order"
	"github.com/frahmantamala/ecommerce-backend/internal/payment"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentmethod"
	"github.com/frahmantamala/ecommerce-backend/internal/transport"
	"github.com/frahmantamala/ecommerce-backend/internal/transport/rest"
	"github.com/frahmantamala/ecommerce-backend/internal/transport/swagger"
	"github.com/frahmantamala/ecommerce-backend/internal/user"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

type fakePinger struct {
	err error
}

func (p *fakePinger) PingContext(ctx context.Context) error {
	return p.err
}

var _ = Describe("Router", func() {
	var (
		lg     *slog.Logger
		pinger *fakePinger
		spec   *swagger.Spec
		router *chi.Mux
	)

	BeforeEach(func() {
		lg = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		pinger = &fakePinger{}

		var err error
		spec, err = swagger.Load("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())

		// Services are never reached by these requests.
		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, pinger, rest.Options{Spec: spec}, rest.Handlers{
			Auth:          auth.NewHandler(nil, lg),
			Staff:         auth.NewStaffAuthorization(lg),
			User:          user.NewHandler(nil, lg),
			Order:         order.NewHandler(nil, lg),
			Payment:       payment.NewHandler(nil, lg),
			PaymentMethod: paymentmethod.NewHandler(transport.NewBaseHandler(lg), nil),
		}, lg)
	})

	serve := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	Describe("health", func() {
		It("should report healthy when the database answers", func() {
			rec := serve(http.MethodGet, "/health")

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body rest.HealthResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Status).To(Equal(rest.HealthHealthy))
			Expect(body.Version).To(Equal(rest.Version))
			Expect(body.Components).To(HaveKey("database"))
		})

		It("should answer 503 when the database is down", func() {
			pinger.err = errors.New("connection refused")

			rec := serve(http.MethodGet, "/health")

			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
			var body rest.HealthResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Status).To(Equal(rest.HealthUnhealthy))
			Expect(body.Components["database"].Message).To(Equal("connection refused"))
		})

		It("should answer ping", func() {
			rec := serve(http.MethodGet, "/ping")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"OK"`))
		})
	})

	Describe("authentication", func() {
		DescribeTable("should reject protected routes without a bearer token",
			func(method, path string) {
				rec := serve(method, path)

				Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			},
			Entry("profile", http.MethodGet, "/account/profile/"),
			Entry("orders", http.MethodGet, "/account/orders/"),
			Entry("delivery status", http.MethodPut, "/account/change-order-status/1/"),
			Entry("bkash", http.MethodPost, "/payments/bkash/"),
			Entry("history", http.MethodGet, "/payments/history/"),
			Entry("admin listing", http.MethodGet, "/payments/admin/all/"),
			Entry("refund", http.MethodPost, "/payments/1/refund/"),
		)
	})

	Describe("documentation", func() {
		It("should serve the openapi document", func() {
			rec := serve(http.MethodGet, swagger.SpecURL)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/yaml"))
			Expect(rec.Body.String()).To(HavePrefix("openapi: 3.0.3"))
		})

		It("should document every registered route", func() {
			var undocumented []string
			err := chi.Walk(router, func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
				if route == swagger.SpecURL || strings.HasPrefix(route, "/swagger/") {
					return nil
				}
				if !spec.Operation(method, route) {
					undocumented = append(undocumented, method+" "+route)
				}
				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(undocumented).To(BeEmpty())
		})
	})
})
