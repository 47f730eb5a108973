package payment

import (
	"context"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter defines filtering options for payment queries
type Filter struct {
	shared.Filter
	FeeID   *uuid.UUID // Filter by fee
	PayerID *uuid.UUID // Filter by payer
	Status  *Status    // Filter by settlement status
	Channel *Channel   // Filter by channel
}

// Repository defines the interface for payment persistence
type Repository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByReference finds a payment by its transaction reference
	FindByReference(ctx context.Context, reference string) (*Payment, error)

	// FindByFee finds all payments recorded against a fee
	FindByFee(ctx context.Context, feeID uuid.UUID, filter Filter) ([]Payment, error)

	// FindByPayer finds all payments made by a payer
	FindByPayer(ctx context.Context, payerID uuid.UUID, filter Filter) ([]Payment, error)

	// FindSuccessfulByPayerAndFees returns, in one consistent read, every
	// successful payment the payer has made against any of the given
	// fees. Outstanding-balance computation depends on this being a
	// single snapshot: a payment confirmed concurrently is either fully
	// visible or fully absent, never half-counted.
	FindSuccessfulByPayerAndFees(ctx context.Context, payerID uuid.UUID, feeIDs []uuid.UUID) ([]Payment, error)

	// Save creates or updates a payment, translating a reference
	// uniqueness violation into shared.ErrAlreadyExists
	Save(ctx context.Context, payment *Payment) error

	// SaveForPayableFee persists a payment in the same transaction as a
	// payability re-check on its fee. The fee row stays locked until the
	// payment commits, so a fee deactivated between the caller's check
	// and the commit fails with shared.ErrFeeNotPayable instead of
	// silently succeeding.
	SaveForPayableFee(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *Payment) error

	// SettleForPayableFee applies a terminal settlement with optimistic
	// locking. A success settlement re-checks, in the same transaction,
	// that the fee is still payable and returns shared.ErrFeeNotPayable
	// otherwise; a failed settlement needs no fee check.
	SettleForPayableFee(ctx context.Context, payment *Payment) error

	// CountByFee counts payments recorded against a fee
	CountByFee(ctx context.Context, feeID uuid.UUID, filter Filter) (int64, error)
}
