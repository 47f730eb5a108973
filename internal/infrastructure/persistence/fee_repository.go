package persistence

import (
	"context"
	"errors"

	"github.com/charlykso/smart-s-sub004/internal/domain/fee"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeeRepository implements fee.Repository using GORM
type GormFeeRepository struct {
	db *gorm.DB
}

// NewGormFeeRepository creates a new GormFeeRepository
func NewGormFeeRepository(db *gorm.DB) *GormFeeRepository {
	return &GormFeeRepository{db: db}
}

// FindByID finds a fee by its ID
func (r *GormFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.Fee, error) {
	var model models.FeeModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForGroup finds a fee by ID within a group school
func (r *GormFeeRepository) FindByIDForGroup(ctx context.Context, groupSchoolID, id uuid.UUID) (*fee.Fee, error) {
	var model models.FeeModel
	if err := r.db.WithContext(ctx).
		Where("group_school_id = ? AND id = ?", groupSchoolID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNameTermSchool finds the fee matching the composite identity triple
func (r *GormFeeRepository) FindByNameTermSchool(ctx context.Context, schoolID, termID uuid.UUID, name string) (*fee.Fee, error) {
	var model models.FeeModel
	if err := r.db.WithContext(ctx).
		Where("school_id = ? AND term_id = ? AND name = ?", schoolID, termID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySchool finds all fees of a school with filtering
func (r *GormFeeRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter fee.Filter) ([]fee.Fee, error) {
	query := r.db.WithContext(ctx).Model(&models.FeeModel{}).
		Where("school_id = ?", schoolID)
	return r.findFees(r.applyFilter(query, filter))
}

// FindBySchools finds all fees across the given schools with filtering
func (r *GormFeeRepository) FindBySchools(ctx context.Context, schoolIDs []uuid.UUID, filter fee.Filter) ([]fee.Fee, error) {
	if len(schoolIDs) == 0 {
		return []fee.Fee{}, nil
	}
	query := r.db.WithContext(ctx).Model(&models.FeeModel{}).
		Where("school_id IN ?", schoolIDs)
	return r.findFees(r.applyFilter(query, filter))
}

// FindAll finds all fees regardless of school
func (r *GormFeeRepository) FindAll(ctx context.Context, filter fee.Filter) ([]fee.Fee, error) {
	query := r.db.WithContext(ctx).Model(&models.FeeModel{})
	return r.findFees(r.applyFilter(query, filter))
}

// FindPayableBySchool finds approved, active fees of a school
func (r *GormFeeRepository) FindPayableBySchool(ctx context.Context, schoolID uuid.UUID, termID *uuid.UUID) ([]fee.Fee, error) {
	query := r.db.WithContext(ctx).Model(&models.FeeModel{}).
		Where("school_id = ? AND is_approved = ? AND is_active = ?", schoolID, true, true)
	if termID != nil {
		query = query.Where("term_id = ?", *termID)
	}
	return r.findFees(query.Order("created_at ASC"))
}

// Save creates or updates a fee. A violation of the composite unique
// index on (school_id, term_id, name) surfaces as ErrDuplicateFee.
func (r *GormFeeRepository) Save(ctx context.Context, f *fee.Fee) error {
	model := models.FeeModelFromDomain(f)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateFee
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking
func (r *GormFeeRepository) SaveWithLock(ctx context.Context, f *fee.Fee) error {
	model := models.FeeModelFromDomain(f)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", f.ID, f.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateFee
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a fee
func (r *GormFeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FeeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountBySchool counts fees of a school with optional filters
func (r *GormFeeRepository) CountBySchool(ctx context.Context, schoolID uuid.UUID, filter fee.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.FeeModel{}).
		Where("school_id = ?", schoolID)
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormFeeRepository) applyFilter(query *gorm.DB, filter fee.Filter) *gorm.DB {
	if filter.TermID != nil {
		query = query.Where("term_id = ?", *filter.TermID)
	}
	if filter.FeeType != nil {
		query = query.Where("type = ?", *filter.FeeType)
	}
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func (r *GormFeeRepository) findFees(query *gorm.DB) ([]fee.Fee, error) {
	var feeModels []models.FeeModel
	if err := query.Find(&feeModels).Error; err != nil {
		return nil, err
	}
	fees := make([]fee.Fee, len(feeModels))
	for i, model := range feeModels {
		fees[i] = *model.ToDomain()
	}
	return fees, nil
}

var _ fee.Repository = (*GormFeeRepository)(nil)
