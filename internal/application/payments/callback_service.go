package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	// ErrCallbackGatewayNotRegistered is returned when no gateway is
	// registered for the gateway type
	ErrCallbackGatewayNotRegistered = errors.New("payment callback: gateway not registered")
	// ErrCallbackVerificationFailed is returned when signature
	// verification fails
	ErrCallbackVerificationFailed = errors.New("payment callback: signature verification failed")
	// ErrCallbackPaymentNotFound is returned when no payment matches the
	// callback reference
	ErrCallbackPaymentNotFound = errors.New("payment callback: payment not found")
)

// CallbackService settles pending gateway payments from webhook
// deliveries. Gateways redeliver webhooks aggressively, so every path
// through here must be idempotent: a callback for an already-settled
// payment acknowledges without changing anything.
type CallbackService struct {
	gateways  map[payment.GatewayType]payment.Gateway
	payments  payment.Repository
	publisher shared.EventPublisher
	logger    *zap.Logger
	processed sync.Map
}

// CallbackServiceConfig holds the dependencies of the CallbackService
type CallbackServiceConfig struct {
	Gateways  []payment.Gateway
	Payments  payment.Repository
	Publisher shared.EventPublisher
	Logger    *zap.Logger
}

// NewCallbackService creates a new CallbackService
func NewCallbackService(config CallbackServiceConfig) *CallbackService {
	gateways := make(map[payment.GatewayType]payment.Gateway)
	for _, gw := range config.Gateways {
		gateways[gw.GatewayType()] = gw
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CallbackService{
		gateways:  gateways,
		payments:  config.Payments,
		publisher: config.Publisher,
		logger:    logger,
	}
}

// CallbackResult reports the outcome of processing one webhook delivery
type CallbackResult struct {
	Success          bool
	AlreadyProcessed bool
	Reference        string
	Status           payment.Status
}

// ProcessCallback verifies a raw webhook payload and settles the matching
// payment
func (s *CallbackService) ProcessCallback(
	ctx context.Context,
	gatewayType payment.GatewayType,
	payload []byte,
	signature string,
) (*CallbackResult, error) {
	gw, ok := s.gateways[gatewayType]
	if !ok {
		s.logger.Error("gateway not registered",
			zap.String("gateway_type", gatewayType.String()))
		return nil, ErrCallbackGatewayNotRegistered
	}

	event, err := gw.VerifyCallback(ctx, payload, signature)
	if err != nil {
		s.logger.Warn("callback verification failed",
			zap.String("gateway_type", gatewayType.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCallbackVerificationFailed, err)
	}

	s.logger.Info("payment callback received",
		zap.String("gateway_type", gatewayType.String()),
		zap.String("reference", event.Reference),
		zap.String("status", event.Status.String()),
		zap.String("amount", event.Amount.String()))

	idempotencyKey := fmt.Sprintf("callback:%s:%s", gatewayType, event.GatewayTransactionID)
	if _, loaded := s.processed.LoadOrStore(idempotencyKey, time.Now()); loaded {
		s.logger.Info("callback already processed",
			zap.String("idempotency_key", idempotencyKey))
		return &CallbackResult{Success: true, AlreadyProcessed: true, Reference: event.Reference}, nil
	}

	result, err := s.settle(ctx, event)
	if err != nil {
		// Allow the gateway's retry to take another attempt.
		s.processed.Delete(idempotencyKey)
		s.logger.Error("failed to settle payment from callback",
			zap.String("reference", event.Reference),
			zap.Error(err))
		return nil, err
	}

	return result, nil
}

// settle applies a verified callback event to the matching payment
func (s *CallbackService) settle(ctx context.Context, event *payment.CallbackEvent) (*CallbackResult, error) {
	p, err := s.payments.FindByReference(ctx, event.Reference)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("no payment matches callback reference",
				zap.String("reference", event.Reference))
			return nil, ErrCallbackPaymentNotFound
		}
		return nil, err
	}

	changed, err := p.Confirm(event.ChannelResult())
	if err != nil {
		return nil, err
	}
	if !changed {
		s.logger.Info("payment already settled, callback acknowledged",
			zap.String("payment_id", p.ID.String()),
			zap.String("reference", p.Reference),
			zap.String("status", p.Status.String()))
		return &CallbackResult{Success: true, AlreadyProcessed: true, Reference: p.Reference, Status: p.Status}, nil
	}

	if err := s.payments.SettleForPayableFee(ctx, p); err != nil {
		if errors.Is(err, shared.ErrFeeNotPayable) {
			return s.failForUnpayableFee(ctx, event)
		}
		return nil, fmt.Errorf("failed to save settled payment: %w", err)
	}

	s.logger.Info("payment settled via gateway callback",
		zap.String("payment_id", p.ID.String()),
		zap.String("reference", p.Reference),
		zap.String("status", p.Status.String()),
		zap.String("gateway_transaction_id", event.GatewayTransactionID))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, p.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish settlement events",
				zap.String("payment_id", p.ID.String()),
				zap.Error(err))
		}
	}
	p.ClearDomainEvents()

	return &CallbackResult{Success: true, Reference: p.Reference, Status: p.Status}, nil
}

// failForUnpayableFee marks a payment as failed when its fee was
// deactivated before the success settlement could commit. The money never
// entered the ledger, so recording the failure (rather than erroring)
// lets the gateway stop redelivering the webhook.
func (s *CallbackService) failForUnpayableFee(ctx context.Context, event *payment.CallbackEvent) (*CallbackResult, error) {
	p, err := s.payments.FindByReference(ctx, event.Reference)
	if err != nil {
		return nil, err
	}

	changed, err := p.Confirm(payment.ChannelResult{
		Status:               payment.StatusFailed,
		GatewayTransactionID: event.GatewayTransactionID,
		FailureReason:        "fee not payable at settlement",
		SettledAt:            event.SettledAt,
	})
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.payments.SettleForPayableFee(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to save rejected settlement: %w", err)
		}
	}

	s.logger.Warn("success callback rejected, fee no longer payable",
		zap.String("payment_id", p.ID.String()),
		zap.String("reference", p.Reference),
		zap.String("gateway_transaction_id", event.GatewayTransactionID))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, p.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish settlement events",
				zap.String("payment_id", p.ID.String()),
				zap.Error(err))
		}
	}
	p.ClearDomainEvents()

	return &CallbackResult{Success: true, Reference: p.Reference, Status: p.Status}, nil
}
