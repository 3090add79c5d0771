package paymentgateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Channel string

const (
	ChannelBkash Channel = "bkash"
	ChannelCard  Channel = "card"
)

type Status string

const (
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

type Request struct {
	Channel       Channel
	Amount        decimal.Decimal
	Currency      string
	TransactionID string
	// Brand is only meaningful for card requests.
	Brand string
	// MobileNumber is only meaningful for bkash requests.
	MobileNumber string
}

type Result struct {
	Reference string
	Status    Status
	Raw       map[string]interface{}
	// SenderReference and CustomerMSISDN are filled for bkash only.
	SenderReference string
	CustomerMSISDN  string
}

func (r *Result) Approved() bool {
	return r != nil && r.Status == StatusApproved
}

// Simulator stands in for the bKash and card gateways. Every well-formed
// request is approved synchronously.
type Simulator struct {
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

type Config struct {
	Timeout time.Duration
}

func NewSimulator(config Config, logger *slog.Logger) *Simulator {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Simulator{
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Simulator) Authorize(ctx context.Context, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("gateway: amount must be positive, got %s", req.Amount.StringFixed(2))
	}

	var prefix string
	switch req.Channel {
	case ChannelBkash:
		prefix = "BKS"
	case ChannelCard:
		prefix = "AUTH"
	default:
		return nil, fmt.Errorf("gateway: unsupported channel %q", req.Channel)
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("gateway: %w", ctx.Err())
	default:
	}

	reference := prefix + RandomHex(8)
	processedAt := s.now().UTC()

	raw := map[string]interface{}{
		"channel":        string(req.Channel),
		"reference":      reference,
		"transaction_id": req.TransactionID,
		"amount":         req.Amount.StringFixed(2),
		"currency":       req.Currency,
		"status":         string(StatusApproved),
		"processed_at":   processedAt.Format(time.RFC3339),
	}
	if req.Brand != "" {
		raw["brand"] = req.Brand
	}

	var senderRef, msisdn string
	if req.Channel == ChannelBkash {
		senderRef = "SND" + RandomHex(10)
		msisdn = MSISDN(req.MobileNumber)
		raw["sender_reference"] = senderRef
		raw["customer_msisdn"] = msisdn
	}

	s.logger.Info("gateway simulation: payment approved",
		"channel", req.Channel,
		"transaction_id", req.TransactionID,
		"reference", reference,
		"amount", req.Amount.StringFixed(2))

	return &Result{
		Reference:       reference,
		Status:          StatusApproved,
		Raw:             raw,
		SenderReference: senderRef,
		CustomerMSISDN:  msisdn,
	}, nil
}

// MSISDN turns a local 01XXXXXXXXX number into the 8801XXXXXXXXX form.
func MSISDN(mobile string) string {
	if strings.HasPrefix(mobile, "0") {
		return "88" + mobile
	}
	return mobile
}

// RandomHex returns n upper-case hex characters (n <= 32).
func RandomHex(n int) string {
	h := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}
