package payment

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Payment struct {
	ID              int64           `gorm:"primaryKey"`
	UserID          int64           `gorm:"column:user_id;not null;index"`
	OrderID         *int64          `gorm:"column:order_id;uniqueIndex"`
	PaymentMethodID int64           `gorm:"column:payment_method_id;not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	Currency        string          `gorm:"column:currency;size:3;not null"`
	Status          string          `gorm:"column:status;size:20;not null;index"`
	TransactionID   *string         `gorm:"column:transaction_id;size:100;uniqueIndex"`
	MobileNumber    string          `gorm:"column:mobile_number;size:15"`
	CardLastFour    string          `gorm:"column:card_last_four;size:4"`
	CardBrand       string          `gorm:"column:card_brand;size:20"`
	GatewayResponse datatypes.JSON  `gorm:"column:gateway_response"`
	FailureReason   string          `gorm:"column:failure_reason"`
	RefundAmount    decimal.Decimal `gorm:"column:refund_amount;type:decimal(10,2);not null"`
	ProcessedAt     *time.Time      `gorm:"column:processed_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

type BkashPayment struct {
	ID                 int64     `gorm:"primaryKey"`
	PaymentID          int64     `gorm:"column:payment_id;uniqueIndex;not null"`
	MobileNumber       string    `gorm:"column:mobile_number;size:15;not null"`
	BkashTransactionID string    `gorm:"column:bkash_transaction_id;size:100"`
	SenderReference    string    `gorm:"column:sender_reference;size:100"`
	CustomerMSISDN     string    `gorm:"column:customer_msisdn;size:15"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (BkashPayment) TableName() string {
	return "bkash_payments"
}

type CardPayment struct {
	ID                int64     `gorm:"primaryKey"`
	PaymentID         int64     `gorm:"column:payment_id;uniqueIndex;not null"`
	CardType          string    `gorm:"column:card_type;size:20;not null"`
	CardLastFour      string    `gorm:"column:card_last_four;size:4;not null"`
	CardHolderName    string    `gorm:"column:card_holder_name;size:100;not null"`
	AuthorizationCode string    `gorm:"column:authorization_code;size:100"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CardPayment) TableName() string {
	return "card_payments"
}

type PaymentLog struct {
	ID         int64     `gorm:"primaryKey"`
	PaymentID  int64     `gorm:"column:payment_id;not null;index"`
	StatusFrom string    `gorm:"column:status_from;size:20"`
	StatusTo   string    `gorm:"column:status_to;size:20;not null"`
	Message    string    `gorm:"column:message"`
	CreatedBy  *int64    `gorm:"column:created_by"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PaymentLog) TableName() string {
	return "payment_logs"
}
