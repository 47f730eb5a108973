package persistence

import (
	"context"
	"errors"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/tenancy"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGroupSchoolRepository implements tenancy.GroupSchoolRepository using GORM
type GormGroupSchoolRepository struct {
	db *gorm.DB
}

// NewGormGroupSchoolRepository creates a new GormGroupSchoolRepository
func NewGormGroupSchoolRepository(db *gorm.DB) *GormGroupSchoolRepository {
	return &GormGroupSchoolRepository{db: db}
}

// FindByID finds a group school by ID
func (r *GormGroupSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.GroupSchool, error) {
	var model models.GroupSchoolModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all group schools
func (r *GormGroupSchoolRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.GroupSchool, error) {
	var groupModels []models.GroupSchoolModel
	query := r.db.WithContext(ctx).Model(&models.GroupSchoolModel{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Order("name ASC").Find(&groupModels).Error; err != nil {
		return nil, err
	}
	groups := make([]tenancy.GroupSchool, len(groupModels))
	for i, model := range groupModels {
		groups[i] = *model.ToDomain()
	}
	return groups, nil
}

// Save creates or updates a group school
func (r *GormGroupSchoolRepository) Save(ctx context.Context, g *tenancy.GroupSchool) error {
	model := models.GroupSchoolModelFromDomain(g)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a group school
func (r *GormGroupSchoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.GroupSchoolModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ tenancy.GroupSchoolRepository = (*GormGroupSchoolRepository)(nil)

// GormSchoolRepository implements tenancy.SchoolRepository using GORM
type GormSchoolRepository struct {
	db *gorm.DB
}

// NewGormSchoolRepository creates a new GormSchoolRepository
func NewGormSchoolRepository(db *gorm.DB) *GormSchoolRepository {
	return &GormSchoolRepository{db: db}
}

// FindByID finds a school by ID
func (r *GormSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.School, error) {
	var model models.SchoolModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGroup finds all schools under a group school
func (r *GormSchoolRepository) FindByGroup(ctx context.Context, groupSchoolID uuid.UUID, filter shared.Filter) ([]tenancy.School, error) {
	query := r.db.WithContext(ctx).Model(&models.SchoolModel{}).
		Where("group_school_id = ?", groupSchoolID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	return r.findSchools(query.Order("name ASC"))
}

// FindAll finds all schools
func (r *GormSchoolRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.School, error) {
	query := r.db.WithContext(ctx).Model(&models.SchoolModel{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	return r.findSchools(query.Order("name ASC"))
}

// Save creates or updates a school
func (r *GormSchoolRepository) Save(ctx context.Context, s *tenancy.School) error {
	model := models.SchoolModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a school
func (r *GormSchoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SchoolModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByGroup counts schools under a group school
func (r *GormSchoolRepository) CountByGroup(ctx context.Context, groupSchoolID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SchoolModel{}).
		Where("group_school_id = ?", groupSchoolID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSchoolRepository) findSchools(query *gorm.DB) ([]tenancy.School, error) {
	var schoolModels []models.SchoolModel
	if err := query.Find(&schoolModels).Error; err != nil {
		return nil, err
	}
	schools := make([]tenancy.School, len(schoolModels))
	for i, model := range schoolModels {
		schools[i] = *model.ToDomain()
	}
	return schools, nil
}

var _ tenancy.SchoolRepository = (*GormSchoolRepository)(nil)

// GormSessionRepository implements tenancy.SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a session by ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySchool finds all sessions of a school
func (r *GormSessionRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) ([]tenancy.Session, error) {
	var sessionModels []models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("start_date DESC").
		Find(&sessionModels).Error; err != nil {
		return nil, err
	}
	sessions := make([]tenancy.Session, len(sessionModels))
	for i, model := range sessionModels {
		sessions[i] = *model.ToDomain()
	}
	return sessions, nil
}

// FindCurrentBySchool finds the session flagged current for a school
func (r *GormSessionRepository) FindCurrentBySchool(ctx context.Context, schoolID uuid.UUID) (*tenancy.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("school_id = ? AND is_current = ?", schoolID, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a session
func (r *GormSessionRepository) Save(ctx context.Context, s *tenancy.Session) error {
	model := models.SessionModelFromDomain(s)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SetCurrent atomically flags the given session current and clears the
// flag on every sibling session of the same school.
func (r *GormSessionRepository) SetCurrent(ctx context.Context, s *tenancy.Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SessionModel{}).
			Where("school_id = ? AND id <> ?", s.SchoolID, s.ID).
			Update("is_current", false).Error; err != nil {
			return err
		}
		model := models.SessionModelFromDomain(s)
		model.IsCurrent = true
		return tx.Save(model).Error
	})
}

// Delete removes a session
func (r *GormSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SessionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ tenancy.SessionRepository = (*GormSessionRepository)(nil)

// GormTermRepository implements tenancy.TermRepository using GORM
type GormTermRepository struct {
	db *gorm.DB
}

// NewGormTermRepository creates a new GormTermRepository
func NewGormTermRepository(db *gorm.DB) *GormTermRepository {
	return &GormTermRepository{db: db}
}

// FindByID finds a term by ID
func (r *GormTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Term, error) {
	var model models.TermModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySession finds all terms of a session
func (r *GormTermRepository) FindBySession(ctx context.Context, sessionID uuid.UUID, filter shared.Filter) ([]tenancy.Term, error) {
	var termModels []models.TermModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("start_date ASC").
		Find(&termModels).Error; err != nil {
		return nil, err
	}
	terms := make([]tenancy.Term, len(termModels))
	for i, model := range termModels {
		terms[i] = *model.ToDomain()
	}
	return terms, nil
}

// FindCurrentBySchool finds the term flagged current within the school's
// current session.
func (r *GormTermRepository) FindCurrentBySchool(ctx context.Context, schoolID uuid.UUID) (*tenancy.Term, error) {
	var model models.TermModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN sessions ON sessions.id = terms.session_id").
		Where("sessions.school_id = ? AND sessions.is_current = ? AND terms.is_current = ?", schoolID, true, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a term
func (r *GormTermRepository) Save(ctx context.Context, t *tenancy.Term) error {
	model := models.TermModelFromDomain(t)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SetCurrent atomically flags the given term current and clears the flag
// on every sibling term of the same session.
func (r *GormTermRepository) SetCurrent(ctx context.Context, t *tenancy.Term) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TermModel{}).
			Where("session_id = ? AND id <> ?", t.SessionID, t.ID).
			Update("is_current", false).Error; err != nil {
			return err
		}
		model := models.TermModelFromDomain(t)
		model.IsCurrent = true
		return tx.Save(model).Error
	})
}

// Delete removes a term
func (r *GormTermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TermModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ tenancy.TermRepository = (*GormTermRepository)(nil)
