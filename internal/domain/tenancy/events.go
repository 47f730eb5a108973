package tenancy

import (
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// GroupSchoolCreatedEvent is raised when a new group school is created
type GroupSchoolCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// EventType returns the event type name
func (e *GroupSchoolCreatedEvent) EventType() string {
	return "GroupSchoolCreated"
}

// NewGroupSchoolCreatedEvent creates a new GroupSchoolCreatedEvent
func NewGroupSchoolCreatedEvent(gs *GroupSchool) *GroupSchoolCreatedEvent {
	return &GroupSchoolCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("GroupSchoolCreated", "GroupSchool", gs.ID, gs.ID),
		Name:            gs.Name,
	}
}

// SchoolCreatedEvent is raised when a new school is created
type SchoolCreatedEvent struct {
	shared.BaseDomainEvent
	SchoolID uuid.UUID `json:"school_id"`
	Name     string    `json:"name"`
}

// EventType returns the event type name
func (e *SchoolCreatedEvent) EventType() string {
	return "SchoolCreated"
}

// NewSchoolCreatedEvent creates a new SchoolCreatedEvent
func NewSchoolCreatedEvent(s *School) *SchoolCreatedEvent {
	return &SchoolCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SchoolCreated", "School", s.ID, s.GroupSchoolID),
		SchoolID:        s.ID,
		Name:            s.Name,
	}
}

// SessionCreatedEvent is raised when a new academic session is created
type SessionCreatedEvent struct {
	shared.BaseDomainEvent
	SchoolID  uuid.UUID `json:"school_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// EventType returns the event type name
func (e *SessionCreatedEvent) EventType() string {
	return "SessionCreated"
}

// NewSessionCreatedEvent creates a new SessionCreatedEvent
func NewSessionCreatedEvent(s *Session) *SessionCreatedEvent {
	return &SessionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SessionCreated", "Session", s.ID, s.GroupSchoolID),
		SchoolID:        s.SchoolID,
		Name:            s.Name,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
	}
}

// SessionSetCurrentEvent is raised when a session becomes the current one
type SessionSetCurrentEvent struct {
	shared.BaseDomainEvent
	SchoolID uuid.UUID `json:"school_id"`
	Name     string    `json:"name"`
}

// EventType returns the event type name
func (e *SessionSetCurrentEvent) EventType() string {
	return "SessionSetCurrent"
}

// NewSessionSetCurrentEvent creates a new SessionSetCurrentEvent
func NewSessionSetCurrentEvent(s *Session) *SessionSetCurrentEvent {
	return &SessionSetCurrentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SessionSetCurrent", "Session", s.ID, s.GroupSchoolID),
		SchoolID:        s.SchoolID,
		Name:            s.Name,
	}
}

// TermCreatedEvent is raised when a new term is created
type TermCreatedEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID `json:"session_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// EventType returns the event type name
func (e *TermCreatedEvent) EventType() string {
	return "TermCreated"
}

// NewTermCreatedEvent creates a new TermCreatedEvent
func NewTermCreatedEvent(t *Term) *TermCreatedEvent {
	return &TermCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TermCreated", "Term", t.ID, t.GroupSchoolID),
		SessionID:       t.SessionID,
		Name:            t.Name,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
	}
}

// TermSetCurrentEvent is raised when a term becomes the current one
type TermSetCurrentEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID `json:"session_id"`
	Name      string    `json:"name"`
}

// EventType returns the event type name
func (e *TermSetCurrentEvent) EventType() string {
	return "TermSetCurrent"
}

// NewTermSetCurrentEvent creates a new TermSetCurrentEvent
func NewTermSetCurrentEvent(t *Term) *TermSetCurrentEvent {
	return &TermSetCurrentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TermSetCurrent", "Term", t.ID, t.GroupSchoolID),
		SessionID:       t.SessionID,
		Name:            t.Name,
	}
}
