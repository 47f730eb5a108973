package persistence

import (
	"context"
	"errors"

	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds a payment by its transaction reference
func (r *GormPaymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFee finds all payments recorded against a fee
func (r *GormPaymentRepository) FindByFee(ctx context.Context, feeID uuid.UUID, filter payment.Filter) ([]payment.Payment, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("fee_id = ?", feeID)
	return r.findPayments(r.applyFilter(query, filter).Order("created_at DESC"))
}

// FindByPayer finds all payments made by a payer
func (r *GormPaymentRepository) FindByPayer(ctx context.Context, payerID uuid.UUID, filter payment.Filter) ([]payment.Payment, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("payer_id = ?", payerID)
	return r.findPayments(r.applyFilter(query, filter).Order("created_at DESC"))
}

// FindSuccessfulByPayerAndFees returns every successful payment the payer
// has made against any of the given fees, in a single query. Balance
// computation relies on this being one consistent snapshot.
func (r *GormPaymentRepository) FindSuccessfulByPayerAndFees(ctx context.Context, payerID uuid.UUID, feeIDs []uuid.UUID) ([]payment.Payment, error) {
	if len(feeIDs) == 0 {
		return []payment.Payment{}, nil
	}
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("payer_id = ? AND fee_id IN ? AND status = ?", payerID, feeIDs, payment.StatusSuccess).
		Order("created_at ASC")
	return r.findPayments(query)
}

// Save creates or updates a payment. A duplicate transaction reference
// surfaces as ErrAlreadyExists.
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveForPayableFee inserts a payment and re-checks, inside the same
// transaction, that the fee is still approved and active. The fee row is
// read FOR UPDATE so a concurrent deactivation either commits before the
// check (failing the payment) or waits until after it.
func (r *GormPaymentRepository) SaveForPayableFee(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := feePayableForUpdate(tx, p.FeeID); err != nil {
			return err
		}
		if err := tx.Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

// SaveWithLock saves with optimistic locking
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SettleForPayableFee applies a terminal settlement with optimistic
// locking. A success settlement holds the fee row locked through the
// payability re-check so it cannot commit against a deactivated fee;
// a failed settlement skips the check.
func (r *GormPaymentRepository) SettleForPayableFee(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.IsSuccessful() {
			if err := feePayableForUpdate(tx, p.FeeID); err != nil {
				return err
			}
		}
		result := tx.Model(model).
			Where("id = ? AND version = ?", p.ID, p.Version-1).
			Select("*").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// feePayableForUpdate locks the fee row and verifies it still accepts
// payments. Returns shared.ErrFeeNotPayable when the fee has been
// deactivated or is no longer approved, shared.ErrNotFound when it is
// gone entirely.
func feePayableForUpdate(tx *gorm.DB, feeID uuid.UUID) error {
	var fm models.FeeModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&fm, "id = ?", feeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	if !fm.IsApproved || !fm.IsActive {
		return shared.ErrFeeNotPayable
	}
	return nil
}

// CountByFee counts payments recorded against a fee
func (r *GormPaymentRepository) CountByFee(ctx context.Context, feeID uuid.UUID, filter payment.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("fee_id = ?", feeID)
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter payment.Filter) *gorm.DB {
	if filter.FeeID != nil {
		query = query.Where("fee_id = ?", *filter.FeeID)
	}
	if filter.PayerID != nil {
		query = query.Where("payer_id = ?", *filter.PayerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Channel != nil {
		query = query.Where("channel = ?", *filter.Channel)
	}
	return query
}

func (r *GormPaymentRepository) findPayments(query *gorm.DB) ([]payment.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]payment.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

var _ payment.Repository = (*GormPaymentRepository)(nil)
