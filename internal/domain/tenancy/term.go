package tenancy

import (
	"strings"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// Term represents one term within an academic session. A term belongs to
// a school only transitively, through its session; that chain is walked
// for authorization and fee scoping.
type Term struct {
	shared.GroupAggregateRoot
	SessionID uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsCurrent bool
}

// NewTerm creates a new term within a session
func NewTerm(groupSchoolID, sessionID uuid.UUID, name string, startDate, endDate time.Time) (*Term, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TERM_NAME", "Term name cannot be empty")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_TERM_DATES", "Term end date must be after start date")
	}

	term := &Term{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupSchoolID),
		SessionID:          sessionID,
		Name:               name,
		StartDate:          startDate,
		EndDate:            endDate,
	}

	term.AddDomainEvent(NewTermCreatedEvent(term))

	return term, nil
}

// SetCurrent marks this term as the session's current term
func (t *Term) SetCurrent() {
	if t.IsCurrent {
		return
	}
	t.IsCurrent = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTermSetCurrentEvent(t))
}

// ClearCurrent removes the current flag
func (t *Term) ClearCurrent() {
	if !t.IsCurrent {
		return
	}
	t.IsCurrent = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
