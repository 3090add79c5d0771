package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/auth"
	orderDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/order"
	paymentDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/payment"
	methodDatamodel "github.com/frahmantamala/ecommerce-backend/internal/core/datamodel/paymentmethod"
	"github.com/frahmantamala/ecommerce-backend/internal/core/events"
	"github.com/frahmantamala/ecommerce-backend/internal/order"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentgateway"
	"github.com/frahmantamala/ecommerce-backend/internal/paymentmethod"
)

// RepositoryAPI is the payment unit of work. Lookups return nil, nil when
// the row does not exist.
type RepositoryAPI interface {
	// WithinTransaction runs fn against a repository bound to one database
	// transaction. Returning an error rolls everything back.
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI) error) error

	CreatePayment(ctx context.Context, p *paymentDatamodel.Payment) error
	SavePayment(ctx context.Context, p *paymentDatamodel.Payment) error
	CreateBkashPayment(ctx context.Context, b *paymentDatamodel.BkashPayment) error
	CreateCardPayment(ctx context.Context, c *paymentDatamodel.CardPayment) error
	AppendLog(ctx context.Context, l *paymentDatamodel.PaymentLog) error

	GetByID(ctx context.Context, id int64) (*paymentDatamodel.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*paymentDatamodel.Payment, error)
	GetByOrderID(ctx context.Context, orderID int64) (*paymentDatamodel.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]*paymentDatamodel.Payment, error)
	ListAll(ctx context.Context) ([]*paymentDatamodel.Payment, error)
	LoadRelations(ctx context.Context, payments []*paymentDatamodel.Payment) (*Relations, error)

	GetMethodByName(ctx context.Context, name string) (*methodDatamodel.PaymentMethod, error)
	CreateMethod(ctx context.Context, m *methodDatamodel.PaymentMethod) error

	GetOrder(ctx context.Context, id int64) (*orderDatamodel.Order, error)
	SetOrderPaid(ctx context.Context, orderID int64, paid bool, paidAt *time.Time) error
}

// Relations holds the rows hanging off a set of payments. Specializations
// and logs are keyed by payment id, methods by method id.
type Relations struct {
	Methods map[int64]*methodDatamodel.PaymentMethod
	Bkash   map[int64]*paymentDatamodel.BkashPayment
	Card    map[int64]*paymentDatamodel.CardPayment
	Logs    map[int64][]*paymentDatamodel.PaymentLog
}

type Gateway interface {
	Authorize(ctx context.Context, req paymentgateway.Request) (*paymentgateway.Result, error)
}

type Config struct {
	Currency string
}

type Service struct {
	repo      RepositoryAPI
	gateway   Gateway
	publisher events.Publisher
	currency  string
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, gateway Gateway, publisher events.Publisher, config Config, logger *slog.Logger) *Service {
	currency := config.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Service{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		currency:  currency,
		logger:    logger,
		now:       time.Now,
	}
}

// submission is the channel-neutral part of a bKash or card attempt.
type submission struct {
	methodName   string
	prefix       string
	amount       decimal.Decimal
	orderID      *int64
	details      Details
	mobileNumber string
	cardLastFour string
	cardBrand    string
	successMsg   string
}

func (s *Service) SubmitBkash(ctx context.Context, actor *auth.User, req *BkashPaymentRequest) (*SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("bkash payment rejected", "user_id", actor.ID, "error", err)
		return nil, err
	}

	return s.submit(ctx, actor, submission{
		methodName:   paymentmethod.NameBkash,
		prefix:       "BKS",
		amount:       *req.Amount,
		orderID:      req.OrderID,
		details:      BkashDetails{MobileNumber: req.MobileNumber},
		mobileNumber: req.MobileNumber,
		successMsg:   "bKash payment processed successfully",
	})
}

// SubmitCard persists only the last four digits and the brand.
func (s *Service) SubmitCard(ctx context.Context, actor *auth.User, req *CardPaymentRequest) (*SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("card payment rejected", "user_id", actor.ID, "error", err)
		return nil, err
	}

	lastFour := req.LastFour()
	return s.submit(ctx, actor, submission{
		methodName: req.CardType,
		prefix:     req.CardType,
		amount:     *req.Amount,
		orderID:    req.OrderID,
		details: CardDetails{
			CardType:       req.CardType,
			CardLastFour:   lastFour,
			CardHolderName: req.CardHolderName,
		},
		cardLastFour: lastFour,
		cardBrand:    req.CardType,
		successMsg:   req.CardType + " payment processed successfully",
	})
}

func (s *Service) submit(ctx context.Context, actor *auth.User, sub submission) (*SubmitResponse, error) {
	method, err := s.activeMethod(ctx, s.repo, sub.methodName)
	if err != nil {
		return nil, err
	}

	var (
		p       *Payment
		pending []events.Event
	)

	err = s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		now := s.now()

		var o *order.Order
		if sub.orderID != nil {
			var err error
			if o, err = s.payableOrder(ctx, repo, actor, *sub.orderID); err != nil {
				return err
			}
		}

		p = &Payment{
			UserID:        actor.ID,
			OrderID:       sub.orderID,
			MethodID:      method.ID,
			Amount:        sub.amount,
			Currency:      s.currency,
			Status:        StatusProcessing,
			TransactionID: NewTransactionID(sub.prefix, now),
			MobileNumber:  sub.mobileNumber,
			CardLastFour:  sub.cardLastFour,
			CardBrand:     sub.cardBrand,
			RefundAmount:  decimal.Zero,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		row := ToDataModel(p)
		if err := repo.CreatePayment(ctx, row); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		p.ID = row.ID

		result, err := s.gateway.Authorize(ctx, paymentgateway.Request{
			Channel:       sub.details.channel(),
			Amount:        p.Amount,
			Currency:      p.Currency,
			TransactionID: p.TransactionID,
			Brand:         sub.cardBrand,
			MobileNumber:  sub.mobileNumber,
		})
		if err != nil {
			return fmt.Errorf("authorize payment: %w", err)
		}

		switch d := sub.details.(type) {
		case BkashDetails:
			d.BkashTransactionID = result.Reference
			d.SenderReference = result.SenderReference
			d.CustomerMSISDN = result.CustomerMSISDN
			if err := repo.CreateBkashPayment(ctx, BkashToDataModel(p.ID, d)); err != nil {
				return fmt.Errorf("create bkash payment: %w", err)
			}
			p.Details = d
		case CardDetails:
			d.AuthorizationCode = result.Reference
			if err := repo.CreateCardPayment(ctx, CardToDataModel(p.ID, d)); err != nil {
				return fmt.Errorf("create card payment: %w", err)
			}
			p.Details = d
		}

		p.GatewayResponse = result.Raw
		var entry *Log
		if result.Approved() {
			entry, err = p.TransitionTo(StatusCompleted, sub.successMsg, &actor.ID, now)
		} else {
			p.FailureReason = "Payment declined by gateway"
			entry, err = p.TransitionTo(StatusFailed, p.FailureReason, &actor.ID, now)
		}
		if err != nil {
			return err
		}

		if err := repo.SavePayment(ctx, ToDataModel(p)); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		if err := repo.AppendLog(ctx, LogToDataModel(entry)); err != nil {
			return fmt.Errorf("append payment log: %w", err)
		}

		if p.IsSuccessful() && o != nil {
			o.MarkPaid(now)
			if err := repo.SetOrderPaid(ctx, o.ID, o.PaidStatus, o.PaidAt); err != nil {
				return fmt.Errorf("mark order paid: %w", err)
			}
			pending = append(pending, events.NewOrderPaidEvent(o.ID, p.ID))
		}
		pending = append([]events.Event{s.statusEvent(p, method.Name)}, pending...)
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "payment submission failed", "method", sub.methodName, "user_id", actor.ID)
	}

	s.logger.Info("payment submitted",
		"payment_id", p.ID,
		"transaction_id", p.TransactionID,
		"method", sub.methodName,
		"status", p.Status,
		"user_id", actor.ID)
	s.publish(ctx, pending...)

	detail, err := s.detail(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	message := sub.successMsg
	if !p.IsSuccessful() {
		message = p.FailureReason
	}
	return &SubmitResponse{Success: p.IsSuccessful(), Message: message, Payment: detail}, nil
}

// Process dispatches on payment_method. Active methods without a flow,
// such as cash, are reported as not implemented.
func (s *Service) Process(ctx context.Context, actor *auth.User, req *ProcessPaymentRequest) (*SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch {
	case req.PaymentMethod == paymentmethod.NameBkash:
		return s.SubmitBkash(ctx, actor, req.Bkash())
	case IsCardType(req.PaymentMethod):
		return s.SubmitCard(ctx, actor, req.Card())
	}

	if _, err := s.activeMethod(ctx, s.repo, req.PaymentMethod); err != nil {
		return nil, err
	}
	s.logger.Warn("payment method has no processing flow", "method", req.PaymentMethod, "user_id", actor.ID)
	return nil, apperrors.ErrMethodNotImplemented
}

// MockPayment settles an order directly. With an order the amount defaults
// to its total price; without one the amount is required.
func (s *Service) MockPayment(ctx context.Context, actor *auth.User, req *MockPaymentRequest) (*MockPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	paid := req.Paid()
	var (
		p       *Payment
		pending []events.Event
	)

	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		now := s.now()
		amount := decimal.Zero
		if req.Amount != nil {
			amount = *req.Amount
		}

		if req.OrderID != nil {
			o, err := s.payableOrder(ctx, repo, actor, *req.OrderID)
			if err != nil {
				return err
			}
			if req.Amount == nil {
				amount = o.TotalPrice
			}
			if !amount.IsPositive() {
				return apperrors.NewValidationFieldError("amount", "Amount must be greater than zero", apperrors.ErrCodeInvalidAmount)
			}

			if paid {
				o.MarkPaid(now)
			}
			if err := repo.SetOrderPaid(ctx, o.ID, o.PaidStatus, o.PaidAt); err != nil {
				return fmt.Errorf("mark order paid: %w", err)
			}
		}

		method, err := s.ensureMethod(ctx, repo, req.PaymentMethod)
		if err != nil {
			return err
		}

		p = &Payment{
			UserID:        actor.ID,
			OrderID:       req.OrderID,
			MethodID:      method.ID,
			Amount:        amount,
			Currency:      s.currency,
			Status:        StatusPending,
			TransactionID: NewTransactionID(req.PaymentMethod, now),
			RefundAmount:  decimal.Zero,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		var entry *Log
		if paid {
			entry, err = p.TransitionTo(StatusCompleted, "Mock payment processed for "+req.PaymentMethod, &actor.ID, now)
		} else {
			p.FailureReason = "Mock payment declined"
			entry, err = p.TransitionTo(StatusFailed, p.FailureReason, &actor.ID, now)
		}
		if err != nil {
			return err
		}

		row := ToDataModel(p)
		if err := repo.CreatePayment(ctx, row); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		p.ID = row.ID
		entry.PaymentID = p.ID
		if err := repo.AppendLog(ctx, LogToDataModel(entry)); err != nil {
			return fmt.Errorf("append payment log: %w", err)
		}

		pending = append(pending, s.statusEvent(p, method.Name))
		if paid && p.OrderID != nil {
			pending = append(pending, events.NewOrderPaidEvent(*p.OrderID, p.ID))
		}
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "mock payment failed", "method", req.PaymentMethod, "user_id", actor.ID)
	}

	s.logger.Info("mock payment processed",
		"payment_id", p.ID,
		"transaction_id", p.TransactionID,
		"paid_status", paid,
		"order_id", p.OrderID,
		"user_id", actor.ID)
	s.publish(ctx, pending...)

	return &MockPaymentResponse{
		Message:       "Mock payment processed for " + req.PaymentMethod,
		PaidStatus:    paid,
		Amount:        p.Amount.StringFixed(2),
		TransactionID: p.TransactionID,
		PaymentID:     p.ID,
	}, nil
}

// GetByTransactionID hides other users' payments behind a not-found error.
func (s *Service) GetByTransactionID(ctx context.Context, actor *auth.User, transactionID string) (*PaymentDetail, error) {
	row, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load payment", err)
	}
	return s.scopedDetail(ctx, actor, row)
}

func (s *Service) GetByID(ctx context.Context, actor *auth.User, id int64) (*PaymentDetail, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load payment", err)
	}
	return s.scopedDetail(ctx, actor, row)
}

func (s *Service) ListForUser(ctx context.Context, actor *auth.User) ([]*PaymentDetail, error) {
	rows, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to list payments", "user_id", actor.ID, "error", err)
		return nil, apperrors.NewInternalError("failed to list payments", err)
	}
	return s.details(ctx, rows)
}

func (s *Service) ListAll(ctx context.Context, actor *auth.User) ([]*PaymentDetail, error) {
	if !actor.IsStaff {
		s.logger.Warn("list all payments denied: staff required", "user_id", actor.ID)
		return nil, apperrors.ErrStaffRequired
	}
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list all payments", "error", err)
		return nil, apperrors.NewInternalError("failed to list payments", err)
	}
	return s.details(ctx, rows)
}

// Refund adds to refund_amount. Only when the whole amount has been
// returned does the payment move to refunded.
func (s *Service) Refund(ctx context.Context, actor *auth.User, id int64, req *RefundRequest) (*PaymentDetail, error) {
	if !actor.IsStaff {
		s.logger.Warn("refund denied: staff required", "payment_id", id, "user_id", actor.ID)
		return nil, apperrors.ErrStaffRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		p      *Payment
		refund decimal.Decimal
		method string
	)

	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load payment: %w", err)
		}
		if row == nil {
			return apperrors.ErrPaymentNotFound
		}
		p = FromDataModel(row)

		if !p.CanBeRefunded() {
			return apperrors.ErrPaymentNotRefundable
		}

		remaining := p.RefundableAmount()
		refund = remaining
		if req.Amount != nil {
			refund = *req.Amount
		}
		if refund.GreaterThan(remaining) {
			return apperrors.NewValidationFieldError("amount",
				"Ensure this value is less than or equal to "+remaining.StringFixed(2)+".",
				apperrors.ErrCodeInvalidAmount)
		}

		now := s.now()
		p.RefundAmount = p.RefundAmount.Add(refund)
		p.UpdatedAt = now

		message := "Refund of " + refund.StringFixed(2)
		var entry *Log
		if p.RefundAmount.Equal(p.Amount) {
			entry, err = p.TransitionTo(StatusRefunded, appendReason(message, req.Reason), &actor.ID, now)
			if err != nil {
				return err
			}
		} else {
			// A partial refund keeps the payment completed but is still audited.
			entry = &Log{
				PaymentID:  p.ID,
				StatusFrom: p.Status,
				StatusTo:   p.Status,
				Message:    appendReason("Partial refund of "+refund.StringFixed(2), req.Reason),
				CreatedBy:  &actor.ID,
				CreatedAt:  now,
			}
		}

		if err := repo.SavePayment(ctx, ToDataModel(p)); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		if err := repo.AppendLog(ctx, LogToDataModel(entry)); err != nil {
			return fmt.Errorf("append payment log: %w", err)
		}

		rel, err := repo.LoadRelations(ctx, []*paymentDatamodel.Payment{row})
		if err != nil {
			return fmt.Errorf("load payment relations: %w", err)
		}
		if m, ok := rel.Methods[p.MethodID]; ok {
			method = m.Name
		}
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "refund failed", "payment_id", id, "user_id", actor.ID)
	}

	s.logger.Info("payment refunded",
		"payment_id", p.ID,
		"refund", refund.StringFixed(2),
		"refund_total", p.RefundAmount.StringFixed(2),
		"status", p.Status,
		"refunded_by", actor.ID)
	s.publish(ctx, events.NewPaymentRefundedEvent(p.ID, p.TransactionID, p.UserID,
		p.Amount.StringFixed(2), method, string(p.Status), refund.StringFixed(2)))

	return s.detail(ctx, p.ID)
}

// Cancel is open to the owner and to staff, from pending or processing only.
func (s *Service) Cancel(ctx context.Context, actor *auth.User, id int64, req *CancelRequest) (*PaymentDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		p      *Payment
		method string
	)

	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load payment: %w", err)
		}
		if row == nil || !actor.CanAccess(row.UserID) {
			return apperrors.ErrPaymentNotFound
		}
		p = FromDataModel(row)

		now := s.now()
		entry, err := p.TransitionTo(StatusCancelled, appendReason("Payment cancelled", req.Reason), &actor.ID, now)
		if err != nil {
			return err
		}
		if err := repo.SavePayment(ctx, ToDataModel(p)); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		if err := repo.AppendLog(ctx, LogToDataModel(entry)); err != nil {
			return fmt.Errorf("append payment log: %w", err)
		}

		rel, err := repo.LoadRelations(ctx, []*paymentDatamodel.Payment{row})
		if err != nil {
			return fmt.Errorf("load payment relations: %w", err)
		}
		if m, ok := rel.Methods[p.MethodID]; ok {
			method = m.Name
		}
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "cancel failed", "payment_id", id, "user_id", actor.ID)
	}

	s.logger.Info("payment cancelled", "payment_id", p.ID, "cancelled_by", actor.ID)
	s.publish(ctx, events.NewPaymentCancelledEvent(p.ID, p.TransactionID, p.UserID, p.Amount.StringFixed(2), method))

	return s.detail(ctx, p.ID)
}

// methodStore exposes the payment repository, possibly transaction
// scoped, as a payment method catalog store.
type methodStore struct {
	repo RepositoryAPI
}

func (m methodStore) GetByName(ctx context.Context, name string) (*methodDatamodel.PaymentMethod, error) {
	return m.repo.GetMethodByName(ctx, name)
}

func (m methodStore) Create(ctx context.Context, method *methodDatamodel.PaymentMethod) error {
	return m.repo.CreateMethod(ctx, method)
}

func (s *Service) activeMethod(ctx context.Context, repo RepositoryAPI, name string) (*methodDatamodel.PaymentMethod, error) {
	m, err := paymentmethod.Active(ctx, methodStore{repo}, name)
	if errors.Is(err, apperrors.ErrPaymentMethodNotFound) {
		s.logger.Warn("payment method not available", "method", name)
		return nil, err
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load payment method", err)
	}
	return m, nil
}

func (s *Service) ensureMethod(ctx context.Context, repo RepositoryAPI, name string) (*methodDatamodel.PaymentMethod, error) {
	m, created, err := paymentmethod.Ensure(ctx, methodStore{repo}, paymentmethod.NewPaymentMethod(name))
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("payment method auto-created", "method", name, "id", m.ID)
	}
	return m, nil
}

// payableOrder loads an order the actor may settle. Orders that already
// carry a payment, or are already paid, are rejected.
func (s *Service) payableOrder(ctx context.Context, repo RepositoryAPI, actor *auth.User, orderID int64) (*order.Order, error) {
	row, err := repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if row == nil {
		return nil, apperrors.ErrOrderNotFound
	}
	o := order.FromDataModel(row)
	if !o.VisibleTo(actor) {
		return nil, apperrors.ErrOrderNotFound
	}
	if o.PaidStatus {
		return nil, apperrors.ErrOrderAlreadyPaid
	}

	existing, err := repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order payment: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrOrderAlreadyPaid
	}
	return o, nil
}

func (s *Service) scopedDetail(ctx context.Context, actor *auth.User, row *paymentDatamodel.Payment) (*PaymentDetail, error) {
	if row == nil || !actor.CanAccess(row.UserID) {
		return nil, apperrors.ErrPaymentNotFound
	}
	details, err := s.details(ctx, []*paymentDatamodel.Payment{row})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *Service) detail(ctx context.Context, id int64) (*PaymentDetail, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load payment", err)
	}
	if row == nil {
		return nil, apperrors.ErrPaymentNotFound
	}
	details, err := s.details(ctx, []*paymentDatamodel.Payment{row})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *Service) details(ctx context.Context, rows []*paymentDatamodel.Payment) ([]*PaymentDetail, error) {
	out := make([]*PaymentDetail, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	rel, err := s.repo.LoadRelations(ctx, rows)
	if err != nil {
		s.logger.Error("failed to load payment relations", "error", err)
		return nil, apperrors.NewInternalError("failed to load payments", err)
	}

	for _, row := range rows {
		out = append(out, Assemble(row, rel).ToDetail())
	}
	return out, nil
}

// Assemble joins a payment row with its related rows.
func Assemble(row *paymentDatamodel.Payment, rel *Relations) *Payment {
	p := FromDataModel(row)
	if m, ok := rel.Methods[row.PaymentMethodID]; ok {
		p.Method = paymentmethod.FromDataModel(m)
	}
	if b, ok := rel.Bkash[row.ID]; ok {
		p.Details = BkashFromDataModel(b)
	} else if c, ok := rel.Card[row.ID]; ok {
		p.Details = CardFromDataModel(c)
	}
	for _, l := range rel.Logs[row.ID] {
		p.Logs = append(p.Logs, LogFromDataModel(l))
	}
	return p
}

func (s *Service) statusEvent(p *Payment, method string) events.Event {
	amount := p.Amount.StringFixed(2)
	if p.Status == StatusFailed {
		return events.NewPaymentFailedEvent(p.ID, p.TransactionID, p.UserID, amount, method, p.FailureReason)
	}
	return events.NewPaymentCompletedEvent(p.ID, p.TransactionID, p.UserID, amount, method)
}

// publish runs after commit. Handler errors are logged and never reach
// the caller.
func (s *Service) publish(ctx context.Context, evts ...events.Event) {
	if s.publisher == nil {
		return
	}
	for _, e := range evts {
		if err := s.publisher.PublishSync(ctx, e); err != nil {
			s.logger.Error("event handler failed after commit",
				"event_type", e.EventType(),
				"event_id", e.EventID(),
				"error", err)
		}
	}
}

// failure passes AppErrors through and turns anything else into a 500.
func (s *Service) failure(err error, msg string, kv ...interface{}) error {
	if appErr, ok := apperrors.IsAppError(err); ok && appErr.StatusCode < 500 {
		s.logger.Warn(msg, append(kv, "error", appErr.GetDetailedMessage())...)
		return appErr
	}
	s.logger.Error(msg, append(kv, "error", err)...)
	return apperrors.NewInternalError(msg, err)
}

func appendReason(message, reason string) string {
	if reason == "" {
		return message
	}
	return message + ": " + reason
}
