package postgres

import (
	"context"
	"errors"
	"time"

	orderDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/order"
	paymentDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/payment"
	methodDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/paymentmethod"
	paymentpkg "github.com/frahmantamala/ecommerce-backend/internal/payment"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) paymentpkg.RepositoryAPI {
	return &PaymentRepository{
		db: db,
	}
}

func (r *PaymentRepository) WithinTransaction(ctx context.Context, fn func(repo paymentpkg.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PaymentRepository{db: tx})
	})
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, p *paymentDatamodel.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) SavePayment(ctx context.Context, p *paymentDatamodel.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PaymentRepository) CreateBkashPayment(ctx context.Context, b *paymentDatamodel.BkashPayment) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *PaymentRepository) CreateCardPayment(ctx context.Context, c *paymentDatamodel.CardPayment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *PaymentRepository) AppendLog(ctx context.Context, l *paymentDatamodel.PaymentLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*paymentDatamodel.Payment, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*paymentDatamodel.Payment, error) {
	return r.first(ctx, "transaction_id = ?", transactionID)
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*paymentDatamodel.Payment, error) {
	return r.first(ctx, "order_id = ?", orderID)
}

func (r *PaymentRepository) first(ctx context.Context, query string, arg interface{}) (*paymentDatamodel.Payment, error) {
	var p paymentDatamodel.Payment
	err := r.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64) ([]*paymentDatamodel.Payment, error) {
	var payments []*paymentDatamodel.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]*paymentDatamodel.Payment, error) {
	var payments []*paymentDatamodel.Payment
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&payments).Error
	return payments, err
}

// LoadRelations fetches methods, specializations and logs for the given
// payments with one query per table. Logs come back newest first.
func (r *PaymentRepository) LoadRelations(ctx context.Context, payments []*paymentDatamodel.Payment) (*paymentpkg.Relations, error) {
	rel := &paymentpkg.Relations{
		Methods: make(map[int64]*methodDatamodel.PaymentMethod),
		Bkash:   make(map[int64]*paymentDatamodel.BkashPayment),
		Card:    make(map[int64]*paymentDatamodel.CardPayment),
		Logs:    make(map[int64][]*paymentDatamodel.PaymentLog),
	}
	if len(payments) == 0 {
		return rel, nil
	}

	ids := make([]int64, 0, len(payments))
	methodIDs := make([]int64, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.ID)
		methodIDs = append(methodIDs, p.PaymentMethodID)
	}

	db := r.db.WithContext(ctx)

	var methods []*methodDatamodel.PaymentMethod
	if err := db.Where("id IN ?", methodIDs).Find(&methods).Error; err != nil {
		return nil, err
	}
	for _, m := range methods {
		rel.Methods[m.ID] = m
	}

	var bkash []*paymentDatamodel.BkashPayment
	if err := db.Where("payment_id IN ?", ids).Find(&bkash).Error; err != nil {
		return nil, err
	}
	for _, b := range bkash {
		rel.Bkash[b.PaymentID] = b
	}

	var cards []*paymentDatamodel.CardPayment
	if err := db.Where("payment_id IN ?", ids).Find(&cards).Error; err != nil {
		return nil, err
	}
	for _, c := range cards {
		rel.Card[c.PaymentID] = c
	}

	var logs []*paymentDatamodel.PaymentLog
	if err := db.Where("payment_id IN ?", ids).Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	for _, l := range logs {
		rel.Logs[l.PaymentID] = append(rel.Logs[l.PaymentID], l)
	}

	return rel, nil
}

func (r *PaymentRepository) GetMethodByName(ctx context.Context, name string) (*methodDatamodel.PaymentMethod, error) {
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

func (r *PaymentRepository) CreateMethod(ctx context.Context, m *methodDatamodel.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PaymentRepository) GetOrder(ctx context.Context, id int64) (*orderDatamodel.Order, error) {
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

func (r *PaymentRepository) SetOrderPaid(ctx context.Context, orderID int64, paid bool, paidAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&orderDatamodel.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"paid_status": paid,
			"paid_at":     paidAt,
		}).Error
}
