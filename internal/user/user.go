package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/user"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsStaff   bool      `json:"is_staff"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

// Profile is the public shape of the account endpoint.
type Profile struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsStaff bool   `json:"is_staff"`
}

func (u *User) ToProfile() Profile {
	return Profile{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		IsStaff: u.IsStaff,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsStaff:   u.IsStaff,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
