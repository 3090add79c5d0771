package payment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	paymentDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/payment"
	"github.com/frahmantamala/ecommerce-backend/internal/core/events"
	paymentPkg "github.com/frahmantamala/ecommerce-backend/internal/payment"
	paymentPostgres "github.com/frahmantamala/ecommerce-backend/internal/payment/postgres"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentgateway"
)

var _ = Describe("PaymentHandler", func() {
	var (
		db       *gorm.DB
		handler  *paymentPkg.Handler
		customer *auth.User
		staff    *auth.User
	)

	BeforeEach(func() {
		db = openTestDB()
		bus := events.NewEventBus(testLogger())
		paymentPkg.NewAuditHandler(testLogger()).RegisterEventHandlers(bus)
		service := paymentPkg.NewService(
			paymentPostgres.NewPaymentRepository(db),
			paymentgateway.NewSimulator(paymentgateway.Config{}, testLogger()),
			bus,
			paymentPkg.Config{Currency: "BDT"},
			testLogger(),
		)
		handler = paymentPkg.NewHandler(service, testLogger())

		customer = &auth.User{ID: 1, Email: "customer@example.com"}
		staff = &auth.User{ID: 9, Email: "staff@example.com", IsStaff: true}
	})

	request := func(method, body string, user *auth.User, params map[string]string) *http.Request {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, "/", nil)
		} else {
			req = httptest.NewRequest(method, "/", bytes.NewBufferString(body))
		}
		ctx := req.Context()
		if len(params) > 0 {
			rctx := chi.NewRouteContext()
			for k, v := range params {
				rctx.URLParams.Add(k, v)
			}
			ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
		}
		if user != nil {
			ctx = auth.ContextWithUser(ctx, user)
		}
		return req.WithContext(ctx)
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	Describe("SubmitBkash", func() {
		It("should answer 200 with success for the documented example", func() {
			rec := httptest.NewRecorder()
			handler.SubmitBkash(rec, request(http.MethodPost, `{"mobile_number":"01712345678","amount":150.00,"pin":"1234"}`, customer, nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body["success"]).To(BeTrue())
			payment := body["payment"].(map[string]interface{})
			Expect(payment["amount"]).To(Equal("150.00"))
			Expect(payment["status"]).To(Equal("completed"))
			Expect(payment["card_details"]).To(BeNil())
			Expect(payment).To(HaveKey("bkash_details"))
		})

		It("should answer 400 with field errors on a bad mobile number", func() {
			rec := httptest.NewRecorder()
			handler.SubmitBkash(rec, request(http.MethodPost, `{"mobile_number":"12345","amount":"150.00","pin":"1234"}`, customer, nil))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			body := decode(rec)
			errBody := body["error"].(map[string]interface{})
			details := errBody["details"].(map[string]interface{})["errors"].([]interface{})
			Expect(details[0].(map[string]interface{})["field"]).To(Equal("mobile_number"))
		})

		It("should answer 401 without a user", func() {
			rec := httptest.NewRecorder()
			handler.SubmitBkash(rec, request(http.MethodPost, `{}`, nil, nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Process", func() {
		It("should answer 501 for cash", func() {
			rec := httptest.NewRecorder()
			handler.Process(rec, request(http.MethodPost, `{"payment_method":"cash"}`, customer, nil))

			Expect(rec.Code).To(Equal(http.StatusNotImplemented))
		})

		It("should answer 404 for an unknown method", func() {
			rec := httptest.NewRecorder()
			handler.Process(rec, request(http.MethodPost, `{"payment_method":"crypto"}`, customer, nil))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("MockPayment", func() {
		It("should answer 404 with the order detail when the order is missing", func() {
			rec := httptest.NewRecorder()
			handler.MockPayment(rec, request(http.MethodPost, `{"payment_method":"cash","order_id":4242}`, customer, nil))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decode(rec)["detail"]).To(Equal("Order not found."))
			Expect(countRows(db, &paymentDatamodel.Payment{})).To(Equal(int64(0)))
		})
	})

	Describe("lookups", func() {
		var transactionID string
		var paymentID int64

		BeforeEach(func() {
			rec := httptest.NewRecorder()
			handler.SubmitBkash(rec, request(http.MethodPost, `{"mobile_number":"01712345678","amount":"20.00","pin":"1234"}`, customer, nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			payment := decode(rec)["payment"].(map[string]interface{})
			transactionID = payment["transaction_id"].(string)
			paymentID = int64(payment["id"].(float64))
		})

		It("should return the status of an own transaction", func() {
			rec := httptest.NewRecorder()
			handler.Status(rec, request(http.MethodGet, "", customer, map[string]string{"transaction_id": transactionID}))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)["transaction_id"]).To(Equal(transactionID))
		})

		It("should answer 404 for another user's transaction", func() {
			stranger := &auth.User{ID: 5}
			rec := httptest.NewRecorder()
			handler.Status(rec, request(http.MethodGet, "", stranger, map[string]string{"transaction_id": transactionID}))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should return the detail by id", func() {
			rec := httptest.NewRecorder()
			handler.Detail(rec, request(http.MethodGet, "", customer, map[string]string{"id": strconv.FormatInt(paymentID, 10)}))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)["logs"]).To(HaveLen(1))
		})

		It("should reject a non-numeric id", func() {
			rec := httptest.NewRecorder()
			handler.Detail(rec, request(http.MethodGet, "", customer, map[string]string{"id": "abc"}))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should list history as an array", func() {
			rec := httptest.NewRecorder()
			handler.History(rec, request(http.MethodGet, "", customer, nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var list []map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
			Expect(list).To(HaveLen(1))
		})

		It("should forbid admin listing for customers", func() {
			rec := httptest.NewRecorder()
			handler.AdminAll(rec, request(http.MethodGet, "", customer, nil))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should let staff refund", func() {
			rec := httptest.NewRecorder()
			handler.Refund(rec, request(http.MethodPost, `{"amount":"5.00"}`, staff, map[string]string{"id": strconv.FormatInt(paymentID, 10)}))

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body["refund_amount"]).To(Equal("5.00"))
			Expect(body["status"]).To(Equal("completed"))
		})

		It("should answer 409 when cancelling a completed payment", func() {
			rec := httptest.NewRecorder()
			handler.Cancel(rec, request(http.MethodPost, `{}`, customer, map[string]string{"id": strconv.FormatInt(paymentID, 10)}))

			Expect(rec.Code).To(Equal(http.StatusConflict))
		})
	})
})
