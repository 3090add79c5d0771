package postgres

import (
	"context"
	"errors"

	orderDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/order"
	"github.com/frahmantamala/ecommerce-backend/internal/order"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) order.RepositoryAPI {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *orderDatamodel.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*orderDatamodel.Order, error) {
	var o orderDatamodel.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*orderDatamodel.Order, error) {
	var orders []*orderDatamodel.Order
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*orderDatamodel.Order, error) {
	var orders []*orderDatamodel.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateDelivery writes both fields even when is_delivered is false.
func (r *OrderRepository) UpdateDelivery(ctx context.Context, id int64, isDelivered bool, deliveredAt string) error {
	return r.db.WithContext(ctx).
		Model(&orderDatamodel.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_delivered": isDelivered,
			"delivered_at": deliveredAt,
		}).Error
}
