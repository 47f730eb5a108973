package fee

import (
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeCreatedEvent is raised when a new fee is created
type FeeCreatedEvent struct {
	shared.BaseDomainEvent
	FeeID    uuid.UUID       `json:"fee_id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	FeeType  Type            `json:"fee_type"`
	SchoolID uuid.UUID       `json:"school_id"`
	TermID   uuid.UUID       `json:"term_id"`
}

// EventType returns the event type name
func (e *FeeCreatedEvent) EventType() string {
	return "FeeCreated"
}

// NewFeeCreatedEvent creates a new FeeCreatedEvent
func NewFeeCreatedEvent(f *Fee) *FeeCreatedEvent {
	return &FeeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FeeCreated", "Fee", f.ID, f.GroupSchoolID),
		FeeID:           f.ID,
		Name:            f.Name,
		Amount:          f.Amount,
		FeeType:         f.Type,
		SchoolID:        f.SchoolID,
		TermID:          f.TermID,
	}
}

// FeeApprovedEvent is raised when a fee is approved for payment
type FeeApprovedEvent struct {
	shared.BaseDomainEvent
	FeeID      uuid.UUID  `json:"fee_id"`
	Name       string     `json:"name"`
	SchoolID   uuid.UUID  `json:"school_id"`
	ApprovedBy *uuid.UUID `json:"approved_by"`
}

// EventType returns the event type name
func (e *FeeApprovedEvent) EventType() string {
	return "FeeApproved"
}

// NewFeeApprovedEvent creates a new FeeApprovedEvent
func NewFeeApprovedEvent(f *Fee) *FeeApprovedEvent {
	return &FeeApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FeeApproved", "Fee", f.ID, f.GroupSchoolID),
		FeeID:           f.ID,
		Name:            f.Name,
		SchoolID:        f.SchoolID,
		ApprovedBy:      f.ApprovedBy,
	}
}

// FeeDeactivatedEvent is raised when a fee is removed from the payable set
type FeeDeactivatedEvent struct {
	shared.BaseDomainEvent
	FeeID    uuid.UUID `json:"fee_id"`
	Name     string    `json:"name"`
	SchoolID uuid.UUID `json:"school_id"`
}

// EventType returns the event type name
func (e *FeeDeactivatedEvent) EventType() string {
	return "FeeDeactivated"
}

// NewFeeDeactivatedEvent creates a new FeeDeactivatedEvent
func NewFeeDeactivatedEvent(f *Fee) *FeeDeactivatedEvent {
	return &FeeDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FeeDeactivated", "Fee", f.ID, f.GroupSchoolID),
		FeeID:           f.ID,
		Name:            f.Name,
		SchoolID:        f.SchoolID,
	}
}

// FeeReactivatedEvent is raised when a deactivated fee is restored
type FeeReactivatedEvent struct {
	shared.BaseDomainEvent
	FeeID    uuid.UUID `json:"fee_id"`
	Name     string    `json:"name"`
	SchoolID uuid.UUID `json:"school_id"`
}

// EventType returns the event type name
func (e *FeeReactivatedEvent) EventType() string {
	return "FeeReactivated"
}

// NewFeeReactivatedEvent creates a new FeeReactivatedEvent
func NewFeeReactivatedEvent(f *Fee) *FeeReactivatedEvent {
	return &FeeReactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FeeReactivated", "Fee", f.ID, f.GroupSchoolID),
		FeeID:           f.ID,
		Name:            f.Name,
		SchoolID:        f.SchoolID,
	}
}
