package user

import (
	"context"
	"log/slog"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	userDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/user"
)

// Repository returns nil, nil when the user does not exist.
type Repository interface {
	GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user by id", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if row == nil {
		s.logger.Warn("user not found", "user_id", userID)
		return nil, apperrors.ErrUserNotFound
	}

	u := FromDataModel(row)
	if !u.IsActiveUser() {
		s.logger.Warn("inactive user requested profile", "user_id", userID)
		return nil, apperrors.ErrUserInactive
	}
	return u, nil
}
