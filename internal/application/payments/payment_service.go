package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/access"
	"github.com/charlykso/smart-s-sub004/internal/domain/fee"
	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared/valueobject"
	"github.com/charlykso/smart-s-sub004/internal/domain/tenancy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service provides application-level payment ledger operations
type Service struct {
	payments  payment.Repository
	fees      fee.Repository
	users     identity.UserRepository
	resolver  *tenancy.ScopeResolver
	gate      *access.Gate
	gateways  map[payment.GatewayType]payment.Gateway
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// ServiceConfig holds the dependencies of the payment Service
type ServiceConfig struct {
	Payments  payment.Repository
	Fees      fee.Repository
	Users     identity.UserRepository
	Resolver  *tenancy.ScopeResolver
	Gate      *access.Gate
	Gateways  []payment.Gateway
	Publisher shared.EventPublisher
	Logger    *zap.Logger
}

// NewService creates a new payment Service
func NewService(config ServiceConfig) *Service {
	gateways := make(map[payment.GatewayType]payment.Gateway)
	for _, gw := range config.Gateways {
		gateways[gw.GatewayType()] = gw
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		payments:  config.Payments,
		fees:      config.Fees,
		users:     config.Users,
		resolver:  config.Resolver,
		gate:      config.Gate,
		gateways:  gateways,
		publisher: config.Publisher,
		logger:    logger,
	}
}

// RecordCashPaymentRequest carries the data for an over-the-counter cash
// payment recorded by staff
type RecordCashPaymentRequest struct {
	FeeID   uuid.UUID       `json:"fee_id" binding:"required"`
	PayerID uuid.UUID       `json:"payer_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// InitiatePaymentRequest carries the data for a payer-initiated gateway
// payment
type InitiatePaymentRequest struct {
	FeeID       uuid.UUID       `json:"fee_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Channel     string          `json:"channel" binding:"required"`
	Gateway     string          `json:"gateway" binding:"required"`
	CallbackURL string          `json:"callback_url"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                   uuid.UUID  `json:"id"`
	FeeID                uuid.UUID  `json:"fee_id"`
	PayerID              uuid.UUID  `json:"payer_id"`
	RecordedBy           uuid.UUID  `json:"recorded_by"`
	SchoolID             uuid.UUID  `json:"school_id"`
	Amount               string     `json:"amount"`
	Channel              string     `json:"channel"`
	Status               string     `json:"status"`
	Reference            string     `json:"reference"`
	Gateway              string     `json:"gateway,omitempty"`
	GatewayTransactionID string     `json:"gateway_transaction_id,omitempty"`
	FailureReason        string     `json:"failure_reason,omitempty"`
	Overpayment          bool       `json:"overpayment,omitempty"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	Version              int        `json:"version"`
}

// InitiatePaymentResponse is returned when a gateway payment is opened
type InitiatePaymentResponse struct {
	Payment          *PaymentResponse `json:"payment"`
	AuthorizationURL string           `json:"authorization_url"`
	AccessCode       string           `json:"access_code,omitempty"`
}

// ListFilter defines filtering options for payment list queries
type ListFilter struct {
	Status   string `form:"status"`
	Channel  string `form:"channel"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// RecordCashPayment records an immediately-settled cash payment against a
// fee on behalf of a payer. The recorder must hold cash-recording rights
// for the fee's school; the payer must belong to that same school.
func (s *Service) RecordCashPayment(ctx context.Context, actor identity.Actor, req RecordCashPaymentRequest) (*PaymentResponse, error) {
	f, payer, err := s.validateTarget(ctx, req.FeeID, req.PayerID)
	if err != nil {
		return nil, err
	}

	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, scope, access.OpPaymentRecordCash, f.SchoolID); err != nil {
		return nil, err
	}

	amount := valueobject.NewMoneyNGN(req.Amount)
	overpaid, err := s.checkAmount(ctx, f, payer.ID, amount)
	if err != nil {
		return nil, err
	}

	p, err := payment.NewCashPayment(
		f.GroupSchoolID,
		f.ID,
		payer.ID,
		actor.UserID,
		f.SchoolID,
		amount,
		newReference(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.payments.SaveForPayableFee(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	s.logger.Info("cash payment recorded",
		zap.String("payment_id", p.ID.String()),
		zap.String("fee_id", f.ID.String()),
		zap.String("payer_id", payer.ID.String()),
		zap.String("amount", p.Amount.String()),
		zap.Bool("overpayment", overpaid))

	resp := toPaymentResponse(p)
	resp.Overpayment = overpaid
	return resp, nil
}

// InitiatePayment opens a pending gateway payment for the actor's own
// fees. The payment settles only through the gateway callback.
func (s *Service) InitiatePayment(ctx context.Context, actor identity.Actor, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	f, payer, err := s.validateTarget(ctx, req.FeeID, actor.UserID)
	if err != nil {
		return nil, err
	}

	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, scope, access.OpPaymentPayOwn, f.SchoolID); err != nil {
		return nil, err
	}

	amount := valueobject.NewMoneyNGN(req.Amount)
	overpaid, err := s.checkAmount(ctx, f, payer.ID, amount)
	if err != nil {
		return nil, err
	}

	gatewayType := payment.GatewayType(req.Gateway)
	gw, ok := s.gateways[gatewayType]
	if !ok {
		return nil, payment.ErrGatewayNotConfigured
	}

	p, err := payment.NewGatewayPayment(
		f.GroupSchoolID,
		f.ID,
		payer.ID,
		actor.UserID,
		f.SchoolID,
		amount,
		payment.Channel(req.Channel),
		gatewayType,
		newReference(),
	)
	if err != nil {
		return nil, err
	}

	initResp, err := gw.InitiatePayment(ctx, payment.InitiateRequest{
		PaymentID:   p.ID,
		Reference:   p.Reference,
		Amount:      p.Amount,
		Currency:    string(valueobject.CurrencyNGN),
		PayerEmail:  payer.Email,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}

	if err := s.payments.SaveForPayableFee(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	s.logger.Info("gateway payment initiated",
		zap.String("payment_id", p.ID.String()),
		zap.String("reference", p.Reference),
		zap.String("gateway", gatewayType.String()),
		zap.Bool("overpayment", overpaid))

	resp := toPaymentResponse(p)
	resp.Overpayment = overpaid
	return &InitiatePaymentResponse{
		Payment:          resp,
		AuthorizationURL: initResp.AuthorizationURL,
		AccessCode:       initResp.AccessCode,
	}, nil
}

// GetPayment returns one payment, subject to the actor's read scope.
// Students may only see their own payments.
func (s *Service) GetPayment(ctx context.Context, actor identity.Actor, paymentID uuid.UUID) (*PaymentResponse, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeRead(ctx, actor, p.SchoolID, p.PayerID); err != nil {
		return nil, err
	}

	return toPaymentResponse(p), nil
}

// ListPaymentsByFee lists the payments recorded against a fee
func (s *Service) ListPaymentsByFee(ctx context.Context, actor identity.Actor, feeID uuid.UUID, filter ListFilter) ([]PaymentResponse, error) {
	f, err := s.fees.FindByID(ctx, feeID)
	if err != nil {
		return nil, err
	}

	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, scope, access.OpPaymentRead, f.SchoolID); err != nil {
		return nil, err
	}

	domainFilter := toDomainFilter(filter)
	if actor.Is(identity.RoleStudent) && !actor.Roles.HasAny(identity.RoleBursar, identity.RolePrincipal, identity.RoleICTAdmin) {
		payerID := actor.UserID
		domainFilter.PayerID = &payerID
	}

	found, err := s.payments.FindByFee(ctx, feeID, domainFilter)
	if err != nil {
		return nil, err
	}

	return toPaymentResponses(found), nil
}

// ListPaymentsByPayer lists the payments made by a payer. Students may
// only query themselves.
func (s *Service) ListPaymentsByPayer(ctx context.Context, actor identity.Actor, payerID uuid.UUID, filter ListFilter) ([]PaymentResponse, error) {
	payer, err := s.users.FindByID(ctx, payerID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeRead(ctx, actor, payer.SchoolID, payerID); err != nil {
		return nil, err
	}

	found, err := s.payments.FindByPayer(ctx, payerID, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}

	return toPaymentResponses(found), nil
}

// validateTarget loads and validates the fee and payer a payment is
// aimed at: the fee must be approved and active, and the payer must
// belong to the fee's school.
func (s *Service) validateTarget(ctx context.Context, feeID, payerID uuid.UUID) (*fee.Fee, *identity.User, error) {
	f, err := s.fees.FindByID(ctx, feeID)
	if err != nil {
		return nil, nil, err
	}
	if !f.IsPayable() {
		return nil, nil, shared.ErrFeeNotPayable
	}

	payer, err := s.users.FindByID(ctx, payerID)
	if err != nil {
		return nil, nil, err
	}
	if payer.SchoolID != f.SchoolID {
		return nil, nil, shared.NewDomainError("FORBIDDEN", "Payer does not belong to the fee's school")
	}

	return f, payer, nil
}

// checkAmount enforces the partial-payment rule and detects over-payment.
// A partial payment requires the fee to allow installments. Over-payment
// is accepted as received but reported so staff can reconcile it; the
// outstanding balance clamps at zero rather than going negative.
func (s *Service) checkAmount(ctx context.Context, f *fee.Fee, payerID uuid.UUID, amount valueobject.Money) (bool, error) {
	prior, err := s.payments.FindSuccessfulByPayerAndFees(ctx, payerID, []uuid.UUID{f.ID})
	if err != nil {
		return false, err
	}

	paid := valueobject.ZeroNGN()
	for i := range prior {
		paid = paid.MustAdd(prior[i].AmountMoney())
	}

	remaining := f.AmountMoney().MustSubtract(paid).ClampZero()

	short, err := amount.LessThan(remaining)
	if err != nil {
		return false, err
	}
	if short && !f.InstallmentAllowed {
		return false, shared.NewDomainError("INSTALLMENT_NOT_ALLOWED", "Fee must be paid in full; partial payments are not allowed")
	}

	over, err := amount.GreaterThan(remaining)
	if err != nil {
		return false, err
	}
	if over {
		s.logger.Warn("over-payment accepted",
			zap.String("fee_id", f.ID.String()),
			zap.String("payer_id", payerID.String()),
			zap.String("remaining", remaining.String()),
			zap.String("amount", amount.String()))
	}

	return over, nil
}

// authorizeRead checks payment read access: self-access for the payer,
// scope-checked access for everyone else
func (s *Service) authorizeRead(ctx context.Context, actor identity.Actor, schoolID, payerID uuid.UUID) error {
	if actor.IsSelf(payerID) {
		return nil
	}
	if actor.Is(identity.RoleStudent) && !actor.Roles.HasAny(
		identity.RoleBursar, identity.RolePrincipal, identity.RoleICTAdmin,
		identity.RoleAdmin, identity.RoleProprietor,
	) {
		return shared.ErrForbidden
	}

	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return err
	}
	return s.gate.Authorize(actor, scope, access.OpPaymentRead, schoolID)
}

// publishEvents publishes the aggregate's pending events, best-effort
func (s *Service) publishEvents(ctx context.Context, p *payment.Payment) {
	events := p.GetDomainEvents()
	if len(events) == 0 || s.publisher == nil {
		p.ClearDomainEvents()
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish payment events",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err))
	}
	p.ClearDomainEvents()
}

// newReference generates a ledger-unique transaction reference.
// References are upper-cased so they survive case-insensitive gateway
// dashboards unchanged.
func newReference() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("PAY-%s-%s", time.Now().UTC().Format("20060102"), strings.ToUpper(raw[:12]))
}

func toDomainFilter(filter ListFilter) payment.Filter {
	domainFilter := payment.Filter{}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := payment.Status(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Channel != "" {
		channel := payment.Channel(filter.Channel)
		domainFilter.Channel = &channel
	}
	return domainFilter
}

func toPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                   p.ID,
		FeeID:                p.FeeID,
		PayerID:              p.PayerID,
		RecordedBy:           p.RecordedBy,
		SchoolID:             p.SchoolID,
		Amount:               p.Amount.StringFixed(2),
		Channel:              p.Channel.String(),
		Status:               p.Status.String(),
		Reference:            p.Reference,
		Gateway:              p.Gateway.String(),
		GatewayTransactionID: p.GatewayTransactionID,
		FailureReason:        p.FailureReason,
		PaidAt:               p.PaidAt,
		CreatedAt:            p.CreatedAt,
		Version:              p.Version,
	}
}

func toPaymentResponses(payments []payment.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *toPaymentResponse(&payments[i])
	}
	return responses
}
