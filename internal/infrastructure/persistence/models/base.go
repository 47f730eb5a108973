package models

import (
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// PopulateAggregateRoot populates a domain BaseAggregateRoot from persistence model
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.BaseEntity.ID = m.ID
	a.BaseEntity.CreatedAt = m.CreatedAt
	a.BaseEntity.UpdatedAt = m.UpdatedAt
	a.Version = m.Version
}

// GroupAggregateModel provides common persistence fields for aggregates
// owned by a group school. The group school is the tenancy boundary.
type GroupAggregateModel struct {
	AggregateModel
	GroupSchoolID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainGroupAggregateRoot populates GroupAggregateModel from domain GroupAggregateRoot
func (m *GroupAggregateModel) FromDomainGroupAggregateRoot(g shared.GroupAggregateRoot) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.GroupSchoolID = g.GroupSchoolID
	m.CreatedBy = g.CreatedBy
}

// PopulateGroupAggregateRoot populates a domain GroupAggregateRoot from persistence model
func (m *GroupAggregateModel) PopulateGroupAggregateRoot(g *shared.GroupAggregateRoot) {
	m.PopulateAggregateRoot(&g.BaseAggregateRoot)
	g.GroupSchoolID = m.GroupSchoolID
	g.CreatedBy = m.CreatedBy
}
