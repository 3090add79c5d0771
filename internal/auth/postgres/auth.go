package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	userDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

// GetCredentialsByEmail returns nil, nil when no such user exists.
func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}, nil
}

func (r *Repository) GetActiveUserByID(ctx context.Context, userID int64) (*auth.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.User{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		IsStaff: u.IsStaff,
	}, nil
}
