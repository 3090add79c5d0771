package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          int64           `gorm:"primaryKey"`
	UserID      *int64          `gorm:"column:user_id;index"`
	Name        string          `gorm:"column:name;size:120"`
	OrderedItem string          `gorm:"column:ordered_item;size:250;not null"`
	Address     string          `gorm:"column:address;size:300"`
	CardNumber  string          `gorm:"column:card_number;size:50"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:decimal(8,2);not null"`
	PaidStatus  bool            `gorm:"column:paid_status;not null"`
	PaidAt      *time.Time      `gorm:"column:paid_at"`
	IsDelivered bool            `gorm:"column:is_delivered;not null"`
	DeliveredAt string          `gorm:"column:delivered_at;size:200"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string {
	return "orders"
}
