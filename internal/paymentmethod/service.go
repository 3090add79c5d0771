package paymentmethod

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	methodDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/paymentmethod"
)

// Store is the part of the catalog repository that lookups and
// auto-creation need. The payment repository satisfies it inside its
// transactions through an adapter.
type Store interface {
	// GetByName returns nil, nil when the method does not exist.
	GetByName(ctx context.Context, name string) (*methodDatamodel.PaymentMethod, error)
	Create(ctx context.Context, method *methodDatamodel.PaymentMethod) error
}

type RepositoryAPI interface {
	Store
	ListActive(ctx context.Context) ([]*methodDatamodel.PaymentMethod, error)
}

// Active loads the named method and reports ErrPaymentMethodNotFound when
// it is absent or inactive. Store errors are returned unwrapped.
func Active(ctx context.Context, store Store, name string) (*methodDatamodel.PaymentMethod, error) {
	row, err := store.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if row == nil || !row.IsActive {
		return nil, apperrors.ErrPaymentMethodNotFound
	}
	return row, nil
}

// Ensure returns the method named by template, creating it when absent. An
// existing inactive row is returned unchanged.
func Ensure(ctx context.Context, store Store, template *PaymentMethod) (row *methodDatamodel.PaymentMethod, created bool, err error) {
	row, err = store.GetByName(ctx, template.Name)
	if err != nil {
		return nil, false, fmt.Errorf("load payment method: %w", err)
	}
	if row != nil {
		return row, false, nil
	}

	row = ToDataModel(template)
	if err := store.Create(ctx, row); err != nil {
		return nil, false, fmt.Errorf("create payment method: %w", err)
	}
	return row, true, nil
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

// ListActive returns active methods sorted by name.
func (s *Service) ListActive(ctx context.Context) ([]MethodResponse, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list payment methods", "error", err)
		return nil, apperrors.NewInternalError("failed to list payment methods", err)
	}

	responses := make([]MethodResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse())
	}

	s.logger.Info("retrieved payment methods", "count", len(responses))
	return responses, nil
}

// EnsureMethod returns the named method, creating it when absent.
func (s *Service) EnsureMethod(ctx context.Context, template *PaymentMethod) (*PaymentMethod, error) {
	row, created, err := Ensure(ctx, s.repo, template)
	if err != nil {
		s.logger.Error("failed to ensure payment method", "name", template.Name, "error", err)
		return nil, apperrors.NewInternalError("failed to ensure payment method", err)
	}
	if created {
		s.logger.Info("payment method created", "name", row.Name, "id", row.ID)
	}
	return FromDataModel(row), nil
}

// EnsureDefaults installs the default catalog and reports how many rows were added.
func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, m := range Defaults() {
		row, added, err := Ensure(ctx, s.repo, m)
		if err != nil {
			return created, apperrors.NewInternalError("failed to ensure payment method", err)
		}
		if added {
			s.logger.Info("payment method created", "name", row.Name, "id", row.ID)
			created++
		}
	}
	return created, nil
}
