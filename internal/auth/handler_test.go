package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler  *Handler
		mockRepo *mockUserRepository
		service  *Service
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		service = NewService(mockRepo, NewJWTTokenGenerator(testSecret, time.Hour, 24*time.Hour), testLogger())
		handler = NewHandler(service, testLogger())
	})

	post := func(h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return access and refresh tokens", func() {
			rec := post(handler.Login, map[string]string{"email": "customer@example.com", "password": "correct_password"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var body map[string]string
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body).To(gomega.HaveKey("access"))
			gomega.Expect(body).To(gomega.HaveKey("refresh"))
		})

		ginkgo.It("should answer 401 with a detail message on bad credentials", func() {
			rec := post(handler.Login, map[string]string{"email": "customer@example.com", "password": "nope"})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			var body map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["detail"]).To(gomega.Equal("No active account found with the given credentials"))
		})

		ginkgo.It("should answer 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{not json"))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("RefreshToken", func() {
		ginkgo.It("should exchange a refresh token", func() {
			tokens, err := service.Authenticate(context.Background(), LoginDTO{Email: "customer@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rec := post(handler.RefreshToken, map[string]string{"refresh": tokens.RefreshToken})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var (
			reached *User
			next    http.Handler
		)

		ginkgo.BeforeEach(func() {
			reached = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached, _ = UserFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})
		})

		ginkgo.It("should reject requests without a token", func() {
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(reached).To(gomega.BeNil())
		})

		ginkgo.It("should reject a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer not-a-jwt")
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should put the user in the context", func() {
			tokens, err := service.Authenticate(context.Background(), LoginDTO{Email: "staff@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "bearer "+tokens.AccessToken)
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(reached).ToNot(gomega.BeNil())
			gomega.Expect(reached.ID).To(gomega.Equal(int64(2)))
			gomega.Expect(reached.IsStaff).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("RequireStaff", func() {
		var guarded http.Handler

		ginkgo.BeforeEach(func() {
			guarded = NewStaffAuthorization(testLogger()).RequireStaff()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
		})

		serve := func(u *User) int {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if u != nil {
				req = req.WithContext(ContextWithUser(req.Context(), u))
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			return rec.Code
		}

		ginkgo.It("should let staff through", func() {
			gomega.Expect(serve(&User{ID: 2, IsStaff: true})).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should forbid regular users", func() {
			gomega.Expect(serve(&User{ID: 1})).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should reject anonymous requests", func() {
			gomega.Expect(serve(nil)).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
