package persistence

import (
	"context"
	"errors"

	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByEmail finds a user by email address
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindBySchool finds all users attached to a school
func (r *GormUserRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("school_id = ?", schoolID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	return r.findUsers(query.Order("last_name ASC, first_name ASC"))
}

// FindByRole finds all users of a school holding the given role
func (r *GormUserRepository) FindByRole(ctx context.Context, schoolID uuid.UUID, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	// Roles are a comma-separated list; matching on the padded form
	// avoids matching one role as a substring of another.
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("school_id = ?", schoolID).
		Where("',' || roles || ',' LIKE ?", "%,"+string(role)+",%")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern)
	}
	return r.findUsers(query.Order("last_name ASC, first_name ASC"))
}

// Save creates or updates a user. A duplicate email surfaces as
// ErrAlreadyExists.
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	model := models.UserModelFromDomain(u)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) findUsers(query *gorm.DB) ([]identity.User, error) {
	var userModels []models.UserModel
	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	users := make([]identity.User, 0, len(userModels))
	for i := range userModels {
		u, err := userModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
