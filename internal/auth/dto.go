package auth

import (
	"github.com/frahmantamala/ecommerce-backend/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenDTO struct {
	Refresh string `json:"refresh"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(254)
	v.Field("password", d.Password).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("refresh", d.Refresh).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
