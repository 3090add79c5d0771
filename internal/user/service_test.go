package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	userDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/user"
	"github.com/frahmantamala/ecommerce-backend/internal/user"
	userPostgres "github.com/frahmantamala/ecommerce-backend/internal/user/postgres"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

var _ = Describe("User", func() {
	var (
		service  *user.Service
		handler  *user.Handler
		ctx      context.Context
		active   *userDatamodel.User
		inactive *userDatamodel.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(gdb.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		active = &userDatamodel.User{Email: "staff@example.com", Name: "Staff", PasswordHash: "x", IsStaff: true, IsActive: true}
		inactive = &userDatamodel.User{Email: "gone@example.com", Name: "Gone", PasswordHash: "x"}
		Expect(gdb.Create(active).Error).To(Succeed())
		Expect(gdb.Create(inactive).Error).To(Succeed())

		repo := userPostgres.NewPostgresRepo(sqlx.NewDb(sqlDB, "sqlite3"))
		service = user.NewService(repo, slogger)
		handler = user.NewHandler(service, slogger)
	})

	Describe("GetByID", func() {
		It("should load an active user", func() {
			u, err := service.GetByID(ctx, active.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("staff@example.com"))
			Expect(u.IsStaff).To(BeTrue())
		})

		It("should answer not found for an unknown id", func() {
			_, err := service.GetByID(ctx, 999)

			Expect(err).To(MatchError(apperrors.ErrUserNotFound))
		})

		It("should refuse an inactive user", func() {
			_, err := service.GetByID(ctx, inactive.ID)

			Expect(err).To(MatchError(apperrors.ErrUserInactive))
		})
	})

	Describe("GetProfile", func() {
		It("should return id, email, name and is_staff", func() {
			req := httptest.NewRequest(http.MethodGet, "/account/profile/", nil)
			req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: active.ID}))
			rec := httptest.NewRecorder()

			handler.GetProfile(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveLen(4))
			Expect(body["email"]).To(Equal("staff@example.com"))
			Expect(body["is_staff"]).To(BeTrue())
		})

		It("should answer 401 without a user", func() {
			rec := httptest.NewRecorder()

			handler.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/account/profile/", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
