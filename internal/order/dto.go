package order

import (
	"time"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/core/common/validation"
)

// OrderResponse omits the captured card number.
type OrderResponse struct {
	ID          int64      `json:"id"`
	UserID      *int64     `json:"user"`
	Name        string     `json:"name"`
	OrderedItem string     `json:"ordered_item"`
	Address     string     `json:"address"`
	TotalPrice  string     `json:"total_price"`
	PaidStatus  bool       `json:"paid_status"`
	PaidAt      *time.Time `json:"paid_at"`
	IsDelivered bool       `json:"is_delivered"`
	DeliveredAt string     `json:"delivered_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ChangeDeliveryStatusDTO struct {
	IsDelivered *bool  `json:"is_delivered"`
	DeliveredAt string `json:"delivered_at"`
}

func (d ChangeDeliveryStatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("is_delivered", d.IsDelivered).Custom(func(value interface{}) *apperrors.AppError {
		if value.(*bool) == nil {
			return apperrors.NewValidationFieldError("is_delivered", "This field is required.", apperrors.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("delivered_at", d.DeliveredAt).MaxLength(200)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
