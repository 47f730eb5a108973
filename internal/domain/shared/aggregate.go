package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// GroupAggregateRoot extends BaseAggregateRoot for aggregates owned by a
// group school. The group school is the tenancy boundary: every school,
// session, term, fee and payment record belongs to exactly one group.
type GroupAggregateRoot struct {
	BaseAggregateRoot
	GroupSchoolID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid;index"`
}

// NewGroupAggregateRoot creates a new group-scoped aggregate root
func NewGroupAggregateRoot(groupSchoolID uuid.UUID) GroupAggregateRoot {
	return GroupAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		GroupSchoolID:     groupSchoolID,
	}
}

// NewGroupAggregateRootWithCreator creates a new group-scoped aggregate root with creator info
func NewGroupAggregateRootWithCreator(groupSchoolID, createdBy uuid.UUID) GroupAggregateRoot {
	return GroupAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		GroupSchoolID:     groupSchoolID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (g *GroupAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	g.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (g *GroupAggregateRoot) GetCreatedBy() *uuid.UUID {
	return g.CreatedBy
}
