package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrGatewayNotConfigured is returned when no gateway is registered
	// for the requested type
	ErrGatewayNotConfigured = errors.New("payment: gateway not configured")
	// ErrGatewayRequestFailed is returned when the gateway rejects or
	// fails an initiation request
	ErrGatewayRequestFailed = errors.New("payment: gateway request failed")
	// ErrInvalidCallback is returned when a callback payload cannot be
	// verified against the gateway's shared secret
	ErrInvalidCallback = errors.New("payment: invalid callback signature")
)

// GatewayType identifies an external payment gateway
type GatewayType string

const (
	GatewayPaystack    GatewayType = "paystack"
	GatewayFlutterwave GatewayType = "flutterwave"
)

// IsValid checks if the gateway type is valid
func (t GatewayType) IsValid() bool {
	return t == GatewayPaystack || t == GatewayFlutterwave
}

// String returns the string representation of GatewayType
func (t GatewayType) String() string {
	return string(t)
}

// InitiateRequest carries the data a gateway needs to open a transaction
type InitiateRequest struct {
	PaymentID   uuid.UUID
	Reference   string
	Amount      decimal.Decimal
	Currency    string
	PayerEmail  string
	CallbackURL string
}

// InitiateResponse is the gateway's answer to a transaction initiation
type InitiateResponse struct {
	Reference        string // gateway-side transaction reference
	AuthorizationURL string // where the payer completes the payment
	AccessCode       string
}

// CallbackEvent is the parsed, verified content of a gateway webhook
type CallbackEvent struct {
	Reference            string
	Status               Status
	Amount               decimal.Decimal
	GatewayTransactionID string
	FailureReason        string
	SettledAt            time.Time
}

// ChannelResult converts the callback into a settlement result
func (e *CallbackEvent) ChannelResult() ChannelResult {
	return ChannelResult{
		Status:               e.Status,
		GatewayTransactionID: e.GatewayTransactionID,
		FailureReason:        e.FailureReason,
		SettledAt:            e.SettledAt,
	}
}

// Gateway abstracts an external payment provider. The core initiates
// transactions and verifies callbacks through this interface only; it
// never performs gateway HTTP calls itself.
type Gateway interface {
	// GatewayType returns the provider this gateway talks to
	GatewayType() GatewayType

	// InitiatePayment opens a transaction with the provider and returns
	// the reference and authorization URL for the payer
	InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)

	// VerifyCallback authenticates a webhook payload against the
	// provider's shared secret and parses it into a CallbackEvent
	VerifyCallback(ctx context.Context, payload []byte, signature string) (*CallbackEvent, error)
}
