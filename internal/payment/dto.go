package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/core/common/validation"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentmethod"
)

var (
	mobileNumberPattern = regexp.MustCompile(`^01\d{9}$`)
	digitsPattern       = regexp.MustCompile(`^\d+$`)
	expiryPattern       = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

type BkashPaymentRequest struct {
	MobileNumber string           `json:"mobile_number"`
	Amount       *decimal.Decimal `json:"amount"`
	Pin          string           `json:"pin"`
	OrderID      *int64           `json:"order_id,omitempty"`
}

func (r *BkashPaymentRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("mobile_number", r.MobileNumber).
		Required().
		Pattern(mobileNumberPattern, "Invalid mobile number format. Use 01XXXXXXXXX", apperrors.ErrCodeInvalidMobile)
	amountRules(v, r.Amount)
	v.Field("pin", r.Pin).Required().MinLength(4).MaxLength(6)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type CardPaymentRequest struct {
	CardHolderName string           `json:"card_holder_name"`
	CardNumber     string           `json:"card_number"`
	ExpiryDate     string           `json:"expiry_date"`
	CVV            string           `json:"cvv"`
	CardType       string           `json:"card_type"`
	Amount         *decimal.Decimal `json:"amount"`
	OrderID        *int64           `json:"order_id,omitempty"`
}

// NormalizedCardNumber strips the spaces customers type between digit groups.
func (r *CardPaymentRequest) NormalizedCardNumber() string {
	return strings.ReplaceAll(r.CardNumber, " ", "")
}

func (r *CardPaymentRequest) LastFour() string {
	n := r.NormalizedCardNumber()
	if len(n) < 4 {
		return n
	}
	return n[len(n)-4:]
}

func (r *CardPaymentRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("card_holder_name", r.CardHolderName).Required().MaxLength(100)
	v.Field("card_number", r.NormalizedCardNumber()).
		Required().
		Pattern(digitsPattern, "Invalid card number", apperrors.ErrCodeInvalidCard).
		LengthBetween(16, 19, "Invalid card number", apperrors.ErrCodeInvalidCard)
	v.Field("expiry_date", r.ExpiryDate).
		Required().
		Pattern(expiryPattern, "Invalid expiry date format. Use MM/YY", apperrors.ErrCodeInvalidExpiry).
		Custom(func(value interface{}) *apperrors.AppError {
			month, _ := strconv.Atoi(value.(string)[:2])
			if month < 1 || month > 12 {
				return apperrors.NewValidationFieldError("expiry_date", "Invalid month", apperrors.ErrCodeInvalidExpiry)
			}
			return nil
		})
	v.Field("cvv", r.CVV).Required().MinLength(3).MaxLength(4)
	v.Field("card_type", r.CardType).Required().OneOf(CardTypes, apperrors.ErrCodeInvalidChoice)
	amountRules(v, r.Amount)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ProcessPaymentRequest carries the union of bKash and card fields.
type ProcessPaymentRequest struct {
	PaymentMethod  string           `json:"payment_method"`
	MobileNumber   string           `json:"mobile_number"`
	Pin            string           `json:"pin"`
	CardHolderName string           `json:"card_holder_name"`
	CardNumber     string           `json:"card_number"`
	ExpiryDate     string           `json:"expiry_date"`
	CVV            string           `json:"cvv"`
	CardType       string           `json:"card_type"`
	Amount         *decimal.Decimal `json:"amount"`
	OrderID        *int64           `json:"order_id,omitempty"`
}

func (r *ProcessPaymentRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("payment_method", r.PaymentMethod).Required().MaxLength(20)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (r *ProcessPaymentRequest) Bkash() *BkashPaymentRequest {
	return &BkashPaymentRequest{
		MobileNumber: r.MobileNumber,
		Amount:       r.Amount,
		Pin:          r.Pin,
		OrderID:      r.OrderID,
	}
}

func (r *ProcessPaymentRequest) Card() *CardPaymentRequest {
	cardType := r.CardType
	if cardType == "" {
		cardType = r.PaymentMethod
	}
	return &CardPaymentRequest{
		CardHolderName: r.CardHolderName,
		CardNumber:     r.CardNumber,
		ExpiryDate:     r.ExpiryDate,
		CVV:            r.CVV,
		CardType:       cardType,
		Amount:         r.Amount,
		OrderID:        r.OrderID,
	}
}

type MockPaymentRequest struct {
	PaymentMethod string           `json:"payment_method"`
	OrderID       *int64           `json:"order_id,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PaidStatus    *bool            `json:"paid_status,omitempty"`
}

// Paid defaults to true when paid_status is omitted.
func (r *MockPaymentRequest) Paid() bool {
	return r.PaidStatus == nil || *r.PaidStatus
}

func (r *MockPaymentRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("payment_method", r.PaymentMethod).Required().MaxLength(20)
	if r.OrderID == nil {
		v.Field("amount", r.Amount).Required()
	}
	v.Field("amount", r.Amount).
		PositiveDecimal(apperrors.ErrCodeInvalidAmount).
		MaxDecimalPlaces(2, apperrors.ErrCodeInvalidAmount)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RefundRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Reason string           `json:"reason"`
}

func (r *RefundRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("amount", r.Amount).
		PositiveDecimal(apperrors.ErrCodeInvalidAmount).
		MaxDecimalPlaces(2, apperrors.ErrCodeInvalidAmount)
	v.Field("reason", r.Reason).MaxLength(255)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("reason", r.Reason).MaxLength(255)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func amountRules(v *validation.ValidationBuilder, amount *decimal.Decimal) {
	v.Field("amount", amount).
		Required().
		PositiveDecimal(apperrors.ErrCodeInvalidAmount).
		MaxDecimalPlaces(2, apperrors.ErrCodeInvalidAmount)
}

type BkashDetailsResponse struct {
	MobileNumber       string `json:"mobile_number"`
	BkashTransactionID string `json:"bkash_transaction_id"`
}

type CardDetailsResponse struct {
	CardType          string `json:"card_type"`
	CardLastFour      string `json:"card_last_four"`
	CardHolderName    string `json:"card_holder_name"`
	AuthorizationCode string `json:"authorization_code"`
}

type LogResponse struct {
	ID         int64     `json:"id"`
	StatusFrom string    `json:"status_from"`
	StatusTo   string    `json:"status_to"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  *int64    `json:"created_by"`
}

type PaymentDetail struct {
	ID                   int64                         `json:"id"`
	OrderID              *int64                        `json:"order_id"`
	Amount               string                        `json:"amount"`
	Currency             string                        `json:"currency"`
	Status               Status                        `json:"status"`
	TransactionID        *string                       `json:"transaction_id"`
	PaymentMethodDetails *paymentmethod.MethodResponse `json:"payment_method_details"`
	MobileNumber         string                        `json:"mobile_number"`
	CardLastFour         string                        `json:"card_last_four"`
	CardBrand            string                        `json:"card_brand"`
	CreatedAt            time.Time                     `json:"created_at"`
	UpdatedAt            time.Time                     `json:"updated_at"`
	ProcessedAt          *time.Time                    `json:"processed_at"`
	FailureReason        string                        `json:"failure_reason"`
	RefundAmount         string                        `json:"refund_amount"`
	IsSuccessful         bool                          `json:"is_successful"`
	CanBeRefunded        bool                          `json:"can_be_refunded"`
	BkashDetails         *BkashDetailsResponse         `json:"bkash_details"`
	CardDetails          *CardDetailsResponse          `json:"card_details"`
	Logs                 []LogResponse                 `json:"logs"`
}

func (p *Payment) ToDetail() *PaymentDetail {
	d := &PaymentDetail{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount.StringFixed(2),
		Currency:      p.Currency,
		Status:        p.Status,
		MobileNumber:  p.MobileNumber,
		CardLastFour:  p.CardLastFour,
		CardBrand:     p.CardBrand,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		ProcessedAt:   p.ProcessedAt,
		FailureReason: p.FailureReason,
		RefundAmount:  p.RefundAmount.StringFixed(2),
		IsSuccessful:  p.IsSuccessful(),
		CanBeRefunded: p.CanBeRefunded(),
		Logs:          make([]LogResponse, 0, len(p.Logs)),
	}
	if p.TransactionID != "" {
		tx := p.TransactionID
		d.TransactionID = &tx
	}
	if p.Method != nil {
		m := p.Method.ToResponse()
		d.PaymentMethodDetails = &m
	}

	switch details := p.Details.(type) {
	case BkashDetails:
		d.BkashDetails = &BkashDetailsResponse{
			MobileNumber:       details.MobileNumber,
			BkashTransactionID: details.BkashTransactionID,
		}
	case CardDetails:
		d.CardDetails = &CardDetailsResponse{
			CardType:          details.CardType,
			CardLastFour:      details.CardLastFour,
			CardHolderName:    details.CardHolderName,
			AuthorizationCode: details.AuthorizationCode,
		}
	}

	for _, l := range p.Logs {
		d.Logs = append(d.Logs, LogResponse{
			ID:         l.ID,
			StatusFrom: string(l.StatusFrom),
			StatusTo:   string(l.StatusTo),
			Message:    l.Message,
			CreatedAt:  l.CreatedAt,
			CreatedBy:  l.CreatedBy,
		})
	}
	return d
}

type SubmitResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Payment *PaymentDetail `json:"payment"`
}

type MockPaymentResponse struct {
	Message       string `json:"message"`
	PaidStatus    bool   `json:"paid_status"`
	Amount        string `json:"amount"`
	TransactionID string `json:"transaction_id"`
	PaymentID     int64  `json:"payment_id"`
}
