package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	authPostgres "github.com/frahmantamala/ecommerce-backend/internal/auth/postgres"
	"github.com/frahmantamala/ecommerce-backend/internal/core/events"
	"github.com/frahmantamala/ecommerce-backend/internal/order"
	orderPostgres "github.com/frahmantamala/ecommerce-backend/internal/order/postgres"
	"github.com/frahmantamala/ecommerce-backend/internal/payment"
	paymentPostgres "github.com/frahmantamala/ecommerce-backend/internal/payment/postgres"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentgateway"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentmethod"
	paymentMethodPostgres "github.com/frahmantamala/ecommerce-backend/internal/paymentmethod/postgres"
	"github.com/frahmantamala/ecommerce-backend/internal/transport"
	"github.com/frahmantamala/ecommerce-backend/internal/transport/rest"
	"github.com/frahmantamala/ecommerce-backend/internal/transport/swagger"
	"github.com/frahmantamala/ecommerce-backend/internal/user"
	userPostgres "github.com/frahmantamala/ecommerce-backend/internal/user/postgres"
	"github.com/frahmantamala/ecommerce-backend/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var specPath string

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func init() {
	httpServerCmd.Flags().StringVar(&specPath, "spec", "api/openapi.yml", "OpenAPI document served at /openapi.yml")
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	eventBus := events.NewEventBus(lg)
	payment.NewAuditHandler(lg).RegisterEventHandlers(eventBus)

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration, cfg.Security.RefreshTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, lg)
	userService := user.NewService(userPostgres.NewPostgresRepo(deps.DB), lg)
	orderService := order.NewService(orderPostgres.NewOrderRepository(deps.Gorm), lg)
	methodService := paymentmethod.NewService(paymentMethodPostgres.NewPaymentMethodRepository(deps.Gorm), lg)
	gateway := paymentgateway.NewSimulator(paymentgateway.Config{Timeout: cfg.Payment.GatewayTimeout}, lg)
	paymentService := payment.NewService(
		paymentPostgres.NewPaymentRepository(deps.Gorm),
		gateway,
		eventBus,
		payment.Config{Currency: cfg.Payment.Currency},
		lg,
	)

	var spec *swagger.Spec
	if specPath != "" {
		loaded, err := swagger.Load(specPath)
		if err != nil {
			return err
		}
		if err := loaded.UseServerURL(cfg.Server.BaseURL); err != nil {
			return err
		}
		spec = loaded
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB, rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		RequestTimeout: cfg.Server.RequestTimeout,
		Spec:           spec,
	}, rest.Handlers{
		Auth:          auth.NewHandler(authService, lg),
		Staff:         auth.NewStaffAuthorization(lg),
		User:          user.NewHandler(userService, lg),
		Order:         order.NewHandler(orderService, lg),
		Payment:       payment.NewHandler(paymentService, lg),
		PaymentMethod: paymentmethod.NewHandler(transport.NewBaseHandler(lg), methodService),
	}, lg)

	lg.Info("routes registered",
		"payment_completed_handlers", eventBus.HandlerCount(events.EventTypePaymentCompleted),
		"order_paid_handlers", eventBus.HandlerCount(events.EventTypeOrderPaid))
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the shared pgx pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing pool so sqlx and gorm share connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
