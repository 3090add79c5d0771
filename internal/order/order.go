package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	orderDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/order"
)

const DefaultOrderedItem = "Not Set"

type Order struct {
	ID          int64
	UserID      *int64
	Name        string
	OrderedItem string
	Address     string
	CardNumber  string
	TotalPrice  decimal.Decimal
	PaidStatus  bool
	PaidAt      *time.Time
	IsDelivered bool
	DeliveredAt string
	CreatedAt   time.Time
}

// VisibleTo reports whether the user may read the order. Orders without an
// owner are staff-only.
func (o *Order) VisibleTo(u *auth.User) bool {
	if u == nil {
		return false
	}
	if u.IsStaff {
		return true
	}
	return o.UserID != nil && *o.UserID == u.ID
}

func (o *Order) MarkPaid(at time.Time) {
	o.PaidStatus = true
	o.PaidAt = &at
}

func (o *Order) SetDelivery(isDelivered bool, deliveredAt string) {
	o.IsDelivered = isDelivered
	o.DeliveredAt = deliveredAt
}

func (o *Order) ToResponse() OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Name:        o.Name,
		OrderedItem: o.OrderedItem,
		Address:     o.Address,
		TotalPrice:  o.TotalPrice.StringFixed(2),
		PaidStatus:  o.PaidStatus,
		PaidAt:      o.PaidAt,
		IsDelivered: o.IsDelivered,
		DeliveredAt: o.DeliveredAt,
		CreatedAt:   o.CreatedAt,
	}
}

func ToDataModel(o *Order) *orderDatamodel.Order {
	item := o.OrderedItem
	if item == "" {
		item = DefaultOrderedItem
	}
	return &orderDatamodel.Order{
		ID:          o.ID,
		UserID:      o.UserID,
		Name:        o.Name,
		OrderedItem: item,
		Address:     o.Address,
		CardNumber:  o.CardNumber,
		TotalPrice:  o.TotalPrice,
		PaidStatus:  o.PaidStatus,
		PaidAt:      o.PaidAt,
		IsDelivered: o.IsDelivered,
		DeliveredAt: o.DeliveredAt,
		CreatedAt:   o.CreatedAt,
	}
}

func FromDataModel(o *orderDatamodel.Order) *Order {
	return &Order{
		ID:          o.ID,
		UserID:      o.UserID,
		Name:        o.Name,
		OrderedItem: o.OrderedItem,
		Address:     o.Address,
		CardNumber:  o.CardNumber,
		TotalPrice:  o.TotalPrice,
		PaidStatus:  o.PaidStatus,
		PaidAt:      o.PaidAt,
		IsDelivered: o.IsDelivered,
		DeliveredAt: o.DeliveredAt,
		CreatedAt:   o.CreatedAt,
	}
}
