package paymentmethod

import (
	"strings"
	"time"

	methodDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/paymentmethod"
)

const (
	NameBkash      = "bkash"
	NameVisa       = "visa"
	NameMastercard = "mastercard"
	NameCash       = "cash"
)

type PaymentMethod struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `json:"is_active"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *PaymentMethod) ToResponse() MethodResponse {
	return MethodResponse{
		ID:          m.ID,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Icon:        m.Icon,
		Description: m.Description,
		IsActive:    m.IsActive,
	}
}

// NewPaymentMethod builds an active method whose display name is the
// title-cased name, e.g. "cash" becomes "Cash".
func NewPaymentMethod(name string) *PaymentMethod {
	now := time.Now()
	return &PaymentMethod{
		Name:        name,
		DisplayName: TitleCase(name),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Defaults is the catalog installed by the seed command.
func Defaults() []*PaymentMethod {
	return []*PaymentMethod{
		{Name: NameBkash, DisplayName: "bKash", Icon: "mobile-alt", Description: "Pay with your bKash mobile wallet", IsActive: true},
		{Name: NameVisa, DisplayName: "Visa", Icon: "credit-card", Description: "Pay securely with your Visa card", IsActive: true},
		{Name: NameMastercard, DisplayName: "MasterCard", Icon: "credit-card", Description: "Pay securely with your MasterCard", IsActive: true},
		{Name: NameCash, DisplayName: "Cash on Delivery", Icon: "money-bill", Description: "Pay with cash on delivery", IsActive: true},
	}
}

func TitleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func ToDataModel(m *PaymentMethod) *methodDatamodel.PaymentMethod {
	return &methodDatamodel.PaymentMethod{
		ID:          m.ID,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		IsActive:    m.IsActive,
		Icon:        m.Icon,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDataModel(m *methodDatamodel.PaymentMethod) *PaymentMethod {
	return &PaymentMethod{
		ID:          m.ID,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		IsActive:    m.IsActive,
		Icon:        m.Icon,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
