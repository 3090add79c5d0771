package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/ecommerce-backend/internal/paymentmethod"
	paymentMethodPostgres "github.com/frahmantamala/ecommerce-backend/internal/paymentmethod/postgres"
	"github.com/frahmantamala/ecommerce-backend/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Email   string
	Name    string
	IsStaff bool
}

var seedUsers = []seedUser{
	{Email: "customer@mail.com", Name: "Customer"},
	{Email: "staff@mail.com", Name: "Staff", IsStaff: true},
}

// tables in delete order
var seedTables = []string{"payment_logs", "card_payments", "bkash_payments", "payments", "orders", "payment_methods", "users"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with users, the payment method catalog and a sample order for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lg := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range seedTables {
				if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		var customerID int64
		for _, u := range seedUsers {
			id, err := ensureUser(ctx, db, u, string(hash))
			if err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Email, err)
			}
			if !u.IsStaff {
				customerID = id
			}
			fmt.Println("Seeded user:", u.Email)
		}

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}
		methods := paymentmethod.NewService(paymentMethodPostgres.NewPaymentMethodRepository(gormDB), lg)
		created, err := methods.EnsureDefaults(ctx)
		if err != nil {
			log.Fatalf("failed to seed payment methods: %v", err)
		}
		fmt.Printf("Seeded %d payment methods\n", created)

		orderID, err := ensureSampleOrder(ctx, db, customerID)
		if err != nil {
			log.Fatalf("failed to seed order: %v", err)
		}
		fmt.Println("Seeded sample order:", orderID)
	},
}

func ensureUser(ctx context.Context, db *sqlx.DB, u seedUser, hash string) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id, db.Rebind("SELECT id FROM users WHERE email = ?"), u.Email)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	err = db.GetContext(ctx, &id, db.Rebind(
		`INSERT INTO users (email, name, password_hash, is_staff, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, true, now(), now()) RETURNING id`),
		u.Email, u.Name, hash, u.IsStaff)
	return id, err
}

func ensureSampleOrder(ctx context.Context, db *sqlx.DB, userID int64) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id, db.Rebind("SELECT id FROM orders WHERE user_id = ? ORDER BY id LIMIT 1"), userID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	err = db.GetContext(ctx, &id, db.Rebind(
		`INSERT INTO orders (user_id, name, ordered_item, address, card_number, total_price, paid_status, is_delivered, delivered_at, created_at)
		 VALUES (?, ?, ?, ?, '', ?, false, false, '', now()) RETURNING id`),
		userID, "Customer", "Mechanical keyboard", "House 12, Road 5, Dhanmondi, Dhaka", "150.00")
	return id, err
}
