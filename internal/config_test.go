package internal_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ecommerce-backend/internal"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func setenv(key, value string) {
	previous, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, previous)
		} else {
			os.Unsetenv(key)
		}
	})
}

var _ = Describe("Config", func() {
	Describe("LoadConfigFromEnv", func() {
		It("should produce a valid config with defaults", func() {
			setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
			setenv("DATABASE_URL", "postgres://localhost/ecommerce")

			cfg := internal.LoadConfigFromEnv()

			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.Payment.Currency).To(Equal("BDT"))
			Expect(cfg.Server.RequestTimeout).To(Equal(10 * time.Second))
		})

		It("should read overrides", func() {
			setenv("HTTP_PORT", "9090")
			setenv("PAYMENT_GATEWAY_TIMEOUT", "2s")
			setenv("LOG_FORMAT", "text")

			cfg := internal.LoadConfigFromEnv()

			Expect(cfg.Server.Port).To(Equal(9090))
			Expect(cfg.Payment.GatewayTimeout).To(Equal(2 * time.Second))
			Expect(cfg.Observability.Logging.Format).To(Equal("text"))
		})
	})

	Describe("Validate", func() {
		var cfg *internal.Config

		BeforeEach(func() {
			setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
			setenv("DATABASE_URL", "postgres://localhost/ecommerce")
			cfg = internal.LoadConfigFromEnv()
		})

		It("should reject a short jwt secret", func() {
			cfg.Security.JWTSecret = "short"

			err := cfg.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("JWTSecret"))
		})

		It("should reject more idle than open connections", func() {
			cfg.Database.MaxIdleConns = 50

			err := cfg.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("max_idle_conns"))
		})

		It("should reject a currency that is not three letters", func() {
			cfg.Payment.Currency = "TAKA"

			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a read timeout below the header timeout", func() {
			cfg.Server.ReadTimeout = time.Second

			err := cfg.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("read_timeout"))
		})
	})

	Describe("Origins", func() {
		It("should split and trim", func() {
			server := internal.ServerConfig{AllowedOrigins: " http://a.test , ,http://b.test"}

			Expect(server.Origins()).To(Equal([]string{"http://a.test", "http://b.test"}))
		})

		It("should be empty when unset", func() {
			Expect((&internal.ServerConfig{}).Origins()).To(BeEmpty())
		})
	})
})

var _ = Describe("Errors", func() {
	It("should find an app error through wrapping", func() {
		wrapped := fmt.Errorf("lookup: %w", internal.ErrOrderNotFound)

		appErr, ok := internal.IsAppError(wrapped)

		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeOrderNotFound))
	})

	It("should mirror the message in the detail field", func() {
		status, body := internal.ErrOrderNotFound.ToHTTPResponse()

		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body.(internal.Response).Detail).To(Equal("Order not found."))
	})

	It("should default the operation timeout", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()

		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("~", internal.DefaultOperationTimeout, time.Second))
	})
})
