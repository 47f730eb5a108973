package payment

import (
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentInitiatedEvent is raised when a gateway payment is opened
type PaymentInitiatedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	FeeID     uuid.UUID       `json:"fee_id"`
	PayerID   uuid.UUID       `json:"payer_id"`
	Amount    decimal.Decimal `json:"amount"`
	Channel   Channel         `json:"channel"`
	Gateway   GatewayType     `json:"gateway"`
	Reference string          `json:"reference"`
}

// EventType returns the event type name
func (e *PaymentInitiatedEvent) EventType() string {
	return "PaymentInitiated"
}

// NewPaymentInitiatedEvent creates a new PaymentInitiatedEvent
func NewPaymentInitiatedEvent(p *Payment) *PaymentInitiatedEvent {
	return &PaymentInitiatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentInitiated", "Payment", p.ID, p.GroupSchoolID),
		PaymentID:       p.ID,
		FeeID:           p.FeeID,
		PayerID:         p.PayerID,
		Amount:          p.Amount,
		Channel:         p.Channel,
		Gateway:         p.Gateway,
		Reference:       p.Reference,
	}
}

// PaymentSucceededEvent is raised when a payment settles successfully
type PaymentSucceededEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	FeeID     uuid.UUID       `json:"fee_id"`
	PayerID   uuid.UUID       `json:"payer_id"`
	Amount    decimal.Decimal `json:"amount"`
	Channel   Channel         `json:"channel"`
	Reference string          `json:"reference"`
}

// EventType returns the event type name
func (e *PaymentSucceededEvent) EventType() string {
	return "PaymentSucceeded"
}

// NewPaymentSucceededEvent creates a new PaymentSucceededEvent
func NewPaymentSucceededEvent(p *Payment) *PaymentSucceededEvent {
	return &PaymentSucceededEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentSucceeded", "Payment", p.ID, p.GroupSchoolID),
		PaymentID:       p.ID,
		FeeID:           p.FeeID,
		PayerID:         p.PayerID,
		Amount:          p.Amount,
		Channel:         p.Channel,
		Reference:       p.Reference,
	}
}

// PaymentFailedEvent is raised when a pending payment fails at the channel
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID `json:"payment_id"`
	FeeID         uuid.UUID `json:"fee_id"`
	PayerID       uuid.UUID `json:"payer_id"`
	Reference     string    `json:"reference"`
	FailureReason string    `json:"failure_reason"`
}

// EventType returns the event type name
func (e *PaymentFailedEvent) EventType() string {
	return "PaymentFailed"
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(p *Payment) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentFailed", "Payment", p.ID, p.GroupSchoolID),
		PaymentID:       p.ID,
		FeeID:           p.FeeID,
		PayerID:         p.PayerID,
		Reference:       p.Reference,
		FailureReason:   p.FailureReason,
	}
}
