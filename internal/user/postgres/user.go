package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	userDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/user"
	"github.com/frahmantamala/ecommerce-backend/internal/user"
)

type pgRepo struct {
	db *sqlx.DB
}

func NewPostgresRepo(db *sqlx.DB) user.Repository {
	return &pgRepo{db: db}
}

func (p *pgRepo) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	query := p.db.Rebind(`
SELECT id, email, name, password_hash, is_staff, is_active, created_at, updated_at
FROM users
WHERE id = ?
`)
	if err := p.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}
