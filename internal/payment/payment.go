package payment

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	paymentDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/payment"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentgateway"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentmethod"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

const DefaultCurrency = "BDT"

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed, StatusCancelled, StatusCompleted},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:  {StatusRefunded},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

const (
	CardTypeVisa       = "visa"
	CardTypeMastercard = "mastercard"
	CardTypeAmex       = "amex"
)

var CardTypes = []string{CardTypeVisa, CardTypeMastercard, CardTypeAmex}

func IsCardType(name string) bool {
	for _, t := range CardTypes {
		if t == name {
			return true
		}
	}
	return false
}

// Details is the channel-specific part of a payment. The only
// implementations are BkashDetails and CardDetails.
type Details interface {
	channel() paymentgateway.Channel
}

type BkashDetails struct {
	MobileNumber       string
	BkashTransactionID string
	SenderReference    string
	CustomerMSISDN     string
}

func (BkashDetails) channel() paymentgateway.Channel { return paymentgateway.ChannelBkash }

type CardDetails struct {
	CardType          string
	CardLastFour      string
	CardHolderName    string
	AuthorizationCode string
}

func (CardDetails) channel() paymentgateway.Channel { return paymentgateway.ChannelCard }

type Log struct {
	ID         int64
	PaymentID  int64
	StatusFrom Status
	StatusTo   Status
	Message    string
	CreatedBy  *int64
	CreatedAt  time.Time
}

type Payment struct {
	ID              int64
	UserID          int64
	OrderID         *int64
	MethodID        int64
	Method          *paymentmethod.PaymentMethod
	Amount          decimal.Decimal
	Currency        string
	Status          Status
	TransactionID   string
	MobileNumber    string
	CardLastFour    string
	CardBrand       string
	GatewayResponse map[string]interface{}
	FailureReason   string
	RefundAmount    decimal.Decimal
	ProcessedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Details         Details
	Logs            []*Log
}

func (p *Payment) IsSuccessful() bool {
	return p.Status == StatusCompleted
}

func (p *Payment) CanBeRefunded() bool {
	return p.Status == StatusCompleted && p.RefundAmount.LessThan(p.Amount)
}

func (p *Payment) RefundableAmount() decimal.Decimal {
	if !p.CanBeRefunded() {
		return decimal.Zero
	}
	return p.Amount.Sub(p.RefundAmount)
}

// TransitionTo moves the payment to next and returns the log entry that
// records it. Completing a payment stamps ProcessedAt.
func (p *Payment) TransitionTo(next Status, message string, actorID *int64, at time.Time) (*Log, error) {
	if p.Status.IsTerminal() {
		return nil, apperrors.NewConflictError(
			"Payment is already "+string(p.Status)+".",
			apperrors.ErrCodeInvalidTransition,
		)
	}
	if !p.Status.CanTransitionTo(next) {
		return nil, apperrors.NewConflictError(
			"Cannot change payment status from "+string(p.Status)+" to "+string(next)+".",
			apperrors.ErrCodeInvalidTransition,
		)
	}

	from := p.Status
	p.Status = next
	p.UpdatedAt = at
	if next == StatusCompleted {
		p.ProcessedAt = &at
	}

	return &Log{
		PaymentID:  p.ID,
		StatusFrom: from,
		StatusTo:   next,
		Message:    message,
		CreatedBy:  actorID,
		CreatedAt:  at,
	}, nil
}

// NewTransactionID builds prefix + YYYYmmddHHMMSS + six upper-case hex digits.
func NewTransactionID(prefix string, at time.Time) string {
	return strings.ToUpper(prefix) + at.Format("20060102150405") + paymentgateway.RandomHex(6)
}

func ToDataModel(p *Payment) *paymentDatamodel.Payment {
	var txID *string
	if p.TransactionID != "" {
		id := p.TransactionID
		txID = &id
	}

	var gateway datatypes.JSON
	if p.GatewayResponse != nil {
		raw, err := json.Marshal(p.GatewayResponse)
		if err == nil {
			gateway = datatypes.JSON(raw)
		}
	}

	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return &paymentDatamodel.Payment{
		ID:              p.ID,
		UserID:          p.UserID,
		OrderID:         p.OrderID,
		PaymentMethodID: p.MethodID,
		Amount:          p.Amount,
		Currency:        currency,
		Status:          string(p.Status),
		TransactionID:   txID,
		MobileNumber:    p.MobileNumber,
		CardLastFour:    p.CardLastFour,
		CardBrand:       p.CardBrand,
		GatewayResponse: gateway,
		FailureReason:   p.FailureReason,
		RefundAmount:    p.RefundAmount,
		ProcessedAt:     p.ProcessedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func FromDataModel(p *paymentDatamodel.Payment) *Payment {
	out := &Payment{
		ID:            p.ID,
		UserID:        p.UserID,
		OrderID:       p.OrderID,
		MethodID:      p.PaymentMethodID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        Status(p.Status),
		MobileNumber:  p.MobileNumber,
		CardLastFour:  p.CardLastFour,
		CardBrand:     p.CardBrand,
		FailureReason: p.FailureReason,
		RefundAmount:  p.RefundAmount,
		ProcessedAt:   p.ProcessedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.TransactionID != nil {
		out.TransactionID = *p.TransactionID
	}
	if len(p.GatewayResponse) > 0 {
		var raw map[string]interface{}
		if err := json.Unmarshal(p.GatewayResponse, &raw); err == nil {
			out.GatewayResponse = raw
		}
	}
	return out
}

func BkashToDataModel(paymentID int64, d BkashDetails) *paymentDatamodel.BkashPayment {
	return &paymentDatamodel.BkashPayment{
		PaymentID:          paymentID,
		MobileNumber:       d.MobileNumber,
		BkashTransactionID: d.BkashTransactionID,
		SenderReference:    d.SenderReference,
		CustomerMSISDN:     d.CustomerMSISDN,
	}
}

func BkashFromDataModel(b *paymentDatamodel.BkashPayment) BkashDetails {
	return BkashDetails{
		MobileNumber:       b.MobileNumber,
		BkashTransactionID: b.BkashTransactionID,
		SenderReference:    b.SenderReference,
		CustomerMSISDN:     b.CustomerMSISDN,
	}
}

func CardToDataModel(paymentID int64, d CardDetails) *paymentDatamodel.CardPayment {
	return &paymentDatamodel.CardPayment{
		PaymentID:         paymentID,
		CardType:          d.CardType,
		CardLastFour:      d.CardLastFour,
		CardHolderName:    d.CardHolderName,
		AuthorizationCode: d.AuthorizationCode,
	}
}

func CardFromDataModel(c *paymentDatamodel.CardPayment) CardDetails {
	return CardDetails{
		CardType:          c.CardType,
		CardLastFour:      c.CardLastFour,
		CardHolderName:    c.CardHolderName,
		AuthorizationCode: c.AuthorizationCode,
	}
}

func LogToDataModel(l *Log) *paymentDatamodel.PaymentLog {
	return &paymentDatamodel.PaymentLog{
		ID:         l.ID,
		PaymentID:  l.PaymentID,
		StatusFrom: string(l.StatusFrom),
		StatusTo:   string(l.StatusTo),
		Message:    l.Message,
		CreatedBy:  l.CreatedBy,
		CreatedAt:  l.CreatedAt,
	}
}

func LogFromDataModel(l *paymentDatamodel.PaymentLog) *Log {
	return &Log{
		ID:         l.ID,
		PaymentID:  l.PaymentID,
		StatusFrom: Status(l.StatusFrom),
		StatusTo:   Status(l.StatusTo),
		Message:    l.Message,
		CreatedBy:  l.CreatedBy,
		CreatedAt:  l.CreatedAt,
	}
}
