package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	"github.com/frahmantamala/ecommerce-backend/internal/order"
	"github.com/frahmantamala/ecommerce-backend/internal/payment"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentmethod"
	"github.com/frahmantamala/ecommerce-backend/internal/transport/middleware"
	"github.com/frahmantamala/ecommerce-backend/internal/transport/swagger"
	"github.com/frahmantamala/ecommerce-backend/internal/user"
)

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	Spec           *swagger.Spec
}

type Handlers struct {
	Auth          *auth.Handler
	Staff         *auth.StaffAuthorization
	User          *user.Handler
	Order         *order.Handler
	Payment       *payment.Handler
	PaymentMethod *paymentmethod.Handler
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, opts Options, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if opts.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	if opts.Spec != nil {
		router.Method(http.MethodGet, swagger.SpecURL, opts.Spec)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	router.Route("/account", func(r chi.Router) {
		r.Post("/login/", h.Auth.Login)
		r.Post("/token/refresh/", h.Auth.RefreshToken)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/profile/", h.User.GetProfile)
			pr.Get("/orders/", h.Order.ListOrders)
			pr.Get("/orders/{id}/", h.Order.GetOrder)

			pr.Group(func(sr chi.Router) {
				sr.Use(h.Staff.RequireStaff())
				sr.Put("/change-order-status/{id}/", h.Order.ChangeDeliveryStatus)
			})
		})
	})

	router.Route("/payments", func(r chi.Router) {
		r.Get("/methods/", h.PaymentMethod.ListMethods)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/bkash/", h.Payment.SubmitBkash)
			pr.Post("/card/", h.Payment.SubmitCard)
			pr.Post("/process/", h.Payment.Process)
			pr.Post("/mock-payment/", h.Payment.MockPayment)
			pr.Get("/history/", h.Payment.History)
			pr.Get("/detail/{id}/", h.Payment.Detail)
			pr.Get("/status/{transaction_id}/", h.Payment.Status)
			pr.Post("/{id}/cancel/", h.Payment.Cancel)

			pr.Group(func(sr chi.Router) {
				sr.Use(h.Staff.RequireStaff())
				sr.Get("/admin/all/", h.Payment.AdminAll)
				sr.Post("/{id}/refund/", h.Payment.Refund)
			})
		})
	})
}
