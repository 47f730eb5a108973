package tenancy

import (
	"strings"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// Session represents an academic year (e.g. "2025/2026") scoped to one school.
type Session struct {
	shared.GroupAggregateRoot
	SchoolID  uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsCurrent bool
}

// NewSession creates a new academic session for a school
func NewSession(groupSchoolID, schoolID uuid.UUID, name string, startDate, endDate time.Time) (*Session, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SESSION_NAME", "Session name cannot be empty")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_SESSION_DATES", "Session end date must be after start date")
	}

	sess := &Session{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupSchoolID),
		SchoolID:           schoolID,
		Name:               name,
		StartDate:          startDate,
		EndDate:            endDate,
	}

	sess.AddDomainEvent(NewSessionCreatedEvent(sess))

	return sess, nil
}

// SetCurrent marks this session as the school's current session.
// The repository is responsible for clearing the flag on siblings; the
// current session is always resolved by this explicit flag, never by
// list order.
func (s *Session) SetCurrent() {
	if s.IsCurrent {
		return
	}
	s.IsCurrent = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSessionSetCurrentEvent(s))
}

// ClearCurrent removes the current flag
func (s *Session) ClearCurrent() {
	if !s.IsCurrent {
		return
	}
	s.IsCurrent = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
