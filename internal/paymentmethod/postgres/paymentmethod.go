package postgres

import (
	"context"
	"errors"

	methodDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/paymentmethod"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentmethod"
	"gorm.io/gorm"
)

type PaymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) paymentmethod.RepositoryAPI {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) ListActive(ctx context.Context) ([]*methodDatamodel.PaymentMethod, error) {
	var methods []*methodDatamodel.PaymentMethod
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&methods).Error
	return methods, err
}

func (r *PaymentMethodRepository) GetByName(ctx context.Context, name string) (*methodDatamodel.PaymentMethod, error) {
	var m methodDatamodel.PaymentMethod
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *PaymentMethodRepository) Create(ctx context.Context, m *methodDatamodel.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(m).Error
}
