package paymentmethod

import "time"

type PaymentMethod struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:20;uniqueIndex;not null"`
	DisplayName string    `gorm:"column:display_name;size:50;not null"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	Icon        string    `gorm:"column:icon;size:50"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}
