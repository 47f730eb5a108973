package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the smallest identity contract in the ledger model. Every
// record in the tenancy chain (group school, school, session, term) and
// every ledger record (fee, payment, user) carries a UUID identity plus
// creation and update timestamps.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity is embedded by every aggregate in the ledger. IDs are
// generated application-side so references (fee to term, payment to fee)
// can be wired before the first save.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity generates a fresh identity with both timestamps set to
// the same instant.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns when the record was first created
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns when the record last changed
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}
