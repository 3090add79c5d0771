package order

import (
	"context"
	"log/slog"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	orderDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/order"
)

type RepositoryAPI interface {
	Create(ctx context.Context, order *orderDatamodel.Order) error
	// GetByID returns nil, nil when the order does not exist.
	GetByID(ctx context.Context, id int64) (*orderDatamodel.Order, error)
	ListAll(ctx context.Context) ([]*orderDatamodel.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*orderDatamodel.Order, error)
	UpdateDelivery(ctx context.Context, id int64, isDelivered bool, deliveredAt string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns the actor's orders, or every order for staff. Newest first.
func (s *Service) List(ctx context.Context, actor *auth.User) ([]*Order, error) {
	var (
		rows []*orderDatamodel.Order
		err  error
	)
	if actor.IsStaff {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByUser(ctx, actor.ID)
	}
	if err != nil {
		s.logger.Error("failed to list orders", "user_id", actor.ID, "error", err)
		return nil, apperrors.NewInternalError("failed to list orders", err)
	}

	orders := make([]*Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, FromDataModel(row))
	}
	return orders, nil
}

// Get hides orders the actor may not see behind a not-found error.
func (s *Service) Get(ctx context.Context, actor *auth.User, id int64) (*Order, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get order", "order_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get order", err)
	}
	if row == nil {
		return nil, apperrors.ErrOrderNotFound
	}

	o := FromDataModel(row)
	if !o.VisibleTo(actor) {
		s.logger.Warn("order access denied", "order_id", id, "user_id", actor.ID)
		return nil, apperrors.ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) ChangeDeliveryStatus(ctx context.Context, actor *auth.User, id int64, dto ChangeDeliveryStatusDTO) (*Order, error) {
	if !actor.IsStaff {
		s.logger.Warn("change delivery status denied: staff required", "order_id", id, "user_id", actor.ID)
		return nil, apperrors.ErrStaffRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get order", err)
	}
	if row == nil {
		return nil, apperrors.ErrOrderNotFound
	}

	o := FromDataModel(row)
	o.SetDelivery(*dto.IsDelivered, dto.DeliveredAt)
	if err := s.repo.UpdateDelivery(ctx, id, o.IsDelivered, o.DeliveredAt); err != nil {
		s.logger.Error("failed to update delivery status", "order_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update order", err)
	}

	s.logger.Info("order delivery status changed",
		"order_id", id,
		"is_delivered", o.IsDelivered,
		"changed_by", actor.ID)
	return o, nil
}
