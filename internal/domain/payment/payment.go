package payment

import (
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Channel represents the payment method
type Channel string

const (
	ChannelCash         Channel = "cash"
	ChannelCard         Channel = "card"
	ChannelBankTransfer Channel = "bank_transfer"
)

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	switch c {
	case ChannelCash, ChannelCard, ChannelBankTransfer:
		return true
	}
	return false
}

// String returns the string representation of Channel
func (c Channel) String() string {
	return string(c)
}

// RequiresGateway returns true for channels settled asynchronously through
// an external payment gateway
func (c Channel) RequiresGateway() bool {
	return c == ChannelCard || c == ChannelBankTransfer
}

// Status represents the settlement status of a payment
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true once the payment can no longer change state
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// ChannelResult is the settlement outcome reported by a payment channel
// (gateway callback or cash confirmation)
type ChannelResult struct {
	Status               Status
	GatewayTransactionID string
	FailureReason        string
	SettledAt            time.Time
}

// Payment represents one settlement event against one fee by one payer.
// Cash payments settle immediately; gateway payments are created pending
// and become success or failed only through an explicit channel
// confirmation. A successful payment is immutable.
type Payment struct {
	shared.GroupAggregateRoot
	FeeID                uuid.UUID
	PayerID              uuid.UUID
	RecordedBy           uuid.UUID
	SchoolID             uuid.UUID
	Amount               decimal.Decimal
	Channel              Channel
	Status               Status
	Reference            string
	Gateway              GatewayType
	GatewayTransactionID string
	FailureReason        string
	PaidAt               *time.Time
}

// NewCashPayment creates an immediately-settled cash payment
func NewCashPayment(
	groupSchoolID uuid.UUID,
	feeID uuid.UUID,
	payerID uuid.UUID,
	recordedBy uuid.UUID,
	schoolID uuid.UUID,
	amount valueobject.Money,
	reference string,
) (*Payment, error) {
	p, err := newPayment(groupSchoolID, feeID, payerID, recordedBy, schoolID, amount, ChannelCash, reference)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.Status = StatusSuccess
	p.PaidAt = &now

	p.AddDomainEvent(NewPaymentSucceededEvent(p))

	return p, nil
}

// NewGatewayPayment creates a pending payment awaiting asynchronous
// confirmation from the gateway
func NewGatewayPayment(
	groupSchoolID uuid.UUID,
	feeID uuid.UUID,
	payerID uuid.UUID,
	recordedBy uuid.UUID,
	schoolID uuid.UUID,
	amount valueobject.Money,
	channel Channel,
	gateway GatewayType,
	reference string,
) (*Payment, error) {
	if !channel.RequiresGateway() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Channel does not use a payment gateway")
	}
	if !gateway.IsValid() {
		return nil, shared.NewDomainError("INVALID_GATEWAY", "Gateway type is not valid")
	}

	p, err := newPayment(groupSchoolID, feeID, payerID, recordedBy, schoolID, amount, channel, reference)
	if err != nil {
		return nil, err
	}

	p.Gateway = gateway
	p.AddDomainEvent(NewPaymentInitiatedEvent(p))

	return p, nil
}

func newPayment(
	groupSchoolID uuid.UUID,
	feeID uuid.UUID,
	payerID uuid.UUID,
	recordedBy uuid.UUID,
	schoolID uuid.UUID,
	amount valueobject.Money,
	channel Channel,
	reference string,
) (*Payment, error) {
	if feeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE", "Fee ID cannot be empty")
	}
	if payerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYER", "Payer ID cannot be empty")
	}
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Payment channel is not valid")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Transaction reference cannot be empty")
	}

	return &Payment{
		GroupAggregateRoot: shared.NewGroupAggregateRootWithCreator(groupSchoolID, recordedBy),
		FeeID:              feeID,
		PayerID:            payerID,
		RecordedBy:         recordedBy,
		SchoolID:           schoolID,
		Amount:             amount.Amount(),
		Channel:            channel,
		Status:             StatusPending,
		Reference:          reference,
	}, nil
}

// AmountMoney returns the paid amount as Money
func (p *Payment) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(p.Amount)
}

// IsSuccessful returns true if the payment settled successfully
func (p *Payment) IsSuccessful() bool {
	return p.Status == StatusSuccess
}

// Confirm applies a channel settlement result to a pending payment.
// Confirming a payment that is already terminal is a no-op returning
// false, so duplicate webhook deliveries are tolerated without error.
func (p *Payment) Confirm(result ChannelResult) (bool, error) {
	if p.Status.IsTerminal() {
		return false, nil
	}
	if !result.Status.IsValid() || result.Status == StatusPending {
		return false, shared.NewDomainError("INVALID_CHANNEL_RESULT", "Channel result must be success or failed")
	}

	settledAt := result.SettledAt
	if settledAt.IsZero() {
		settledAt = time.Now()
	}

	p.Status = result.Status
	p.GatewayTransactionID = result.GatewayTransactionID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	switch result.Status {
	case StatusSuccess:
		p.PaidAt = &settledAt
		p.AddDomainEvent(NewPaymentSucceededEvent(p))
	case StatusFailed:
		p.FailureReason = result.FailureReason
		p.AddDomainEvent(NewPaymentFailedEvent(p))
	}

	return true, nil
}
