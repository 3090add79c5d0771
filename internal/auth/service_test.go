package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

// Mock repository keyed by email
type mockUserRepository struct {
	creds         map[string]*Credentials
	users         map[int64]*User
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockUserRepository{
		creds: map[string]*Credentials{
			"customer@example.com": {UserID: 1, Email: "customer@example.com", PasswordHash: string(hash), IsActive: true},
			"staff@example.com":    {UserID: 2, Email: "staff@example.com", PasswordHash: string(hash), IsActive: true},
			"gone@example.com":     {UserID: 3, Email: "gone@example.com", PasswordHash: string(hash), IsActive: false},
		},
		users: map[int64]*User{
			1: {ID: 1, Email: "customer@example.com", Name: "Customer"},
			2: {ID: 2, Email: "staff@example.com", Name: "Staff", IsStaff: true},
		},
	}
}

func (m *mockUserRepository) GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	return m.creds[email], nil
}

func (m *mockUserRepository) GetActiveUserByID(ctx context.Context, userID int64) (*User, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	return m.users[userID], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator(testSecret, 15*time.Minute, 24*time.Hour)
		service = NewService(mockRepo, tokenGen, testLogger())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return distinct access and refresh tokens", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "customer@example.com", Password: "correct_password"})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should normalise the email before lookup", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "  Staff@Example.com ", Password: "correct_password"})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(2)))
				gomega.Expect(claims.Email).To(gomega.Equal("staff@example.com"))
				gomega.Expect(claims.TokenType).To(gomega.Equal(TokenTypeAccess))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should reject an unknown email", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "nobody@example.com", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should reject a wrong password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "customer@example.com", Password: "wrong_password"})

				gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidCredentials))
			})

			ginkgo.It("should reject an inactive account", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "gone@example.com", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(apperrors.ErrUserInactive))
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should require the email", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Password: "password"})

				appErr, ok := apperrors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("This field is required."))
			})

			ginkgo.It("should require the password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "customer@example.com"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("This field is required."))
			})
		})

		ginkgo.Context("when repository returns error", func() {
			ginkgo.It("should surface an internal error", func() {
				mockRepo.errorToReturn = errors.New("database error")

				_, err := service.Authenticate(ctx, LoginDTO{Email: "customer@example.com", Password: "correct_password"})

				appErr, ok := apperrors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		var tokens AuthTokens

		ginkgo.BeforeEach(func() {
			var err error
			tokens, err = service.Authenticate(ctx, LoginDTO{Email: "customer@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should issue new tokens for the same user", func() {
			newTokens, err := service.RefreshTokens(ctx, RefreshTokenDTO{Refresh: tokens.RefreshToken})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			claims, err := service.ValidateAccessToken(newTokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should not accept an access token", func() {
			_, err := service.RefreshTokens(ctx, RefreshTokenDTO{Refresh: tokens.AccessToken})

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidToken))
		})

		ginkgo.It("should reject a malformed token", func() {
			_, err := service.RefreshTokens(ctx, RefreshTokenDTO{Refresh: "invalid.token.format"})

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidToken))
		})

		ginkgo.It("should reject an expired token", func() {
			tokenGen.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

			_, err := service.RefreshTokens(ctx, RefreshTokenDTO{Refresh: tokens.RefreshToken})

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrTokenExpired))
		})

		ginkgo.It("should reject a token whose user no longer exists", func() {
			delete(mockRepo.users, 1)

			_, err := service.RefreshTokens(ctx, RefreshTokenDTO{Refresh: tokens.RefreshToken})

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidToken))
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should reject a refresh token", func() {
			refresh, err := tokenGen.Generate(1, "customer@example.com", TokenTypeRefresh)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(refresh)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidToken))
			gomega.Expect(claims).To(gomega.BeNil())
		})

		ginkgo.It("should reject a token signed with another secret", func() {
			other := NewJWTTokenGenerator("another-secret-that-is-at-least-32-bytes", 0, 0)
			token, err := other.Generate(1, "customer@example.com", TokenTypeAccess)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidToken))
		})

		ginkgo.It("should reject an empty token", func() {
			_, err := service.ValidateAccessToken("")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should report expiry", func() {
			token, err := tokenGen.Generate(1, "customer@example.com", TokenTypeAccess)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			tokenGen.now = func() time.Time { return time.Now().Add(time.Hour) }

			_, err = service.ValidateAccessToken(token)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrTokenExpired))
		})
	})

	ginkgo.Describe("NewJWTTokenGenerator", func() {
		ginkgo.It("should fall back to default lifetimes", func() {
			gen := NewJWTTokenGenerator(testSecret, 0, 0)

			gomega.Expect(gen.AccessTokenTTL).To(gomega.Equal(60 * time.Minute))
			gomega.Expect(gen.RefreshTokenTTL).To(gomega.Equal(7 * 24 * time.Hour))
		})
	})

	ginkgo.Describe("User.CanAccess", func() {
		ginkgo.It("should allow owners and staff only", func() {
			owner := &User{ID: 1}
			staff := &User{ID: 2, IsStaff: true}
			stranger := &User{ID: 3}

			gomega.Expect(owner.CanAccess(1)).To(gomega.BeTrue())
			gomega.Expect(staff.CanAccess(1)).To(gomega.BeTrue())
			gomega.Expect(stranger.CanAccess(1)).To(gomega.BeFalse())
			gomega.Expect((*User)(nil).CanAccess(1)).To(gomega.BeFalse())
		})
	})
})
