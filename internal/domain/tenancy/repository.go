package tenancy

import (
	"context"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// GroupSchoolRepository defines the interface for group school persistence
type GroupSchoolRepository interface {
	// FindByID finds a group school by ID
	FindByID(ctx context.Context, id uuid.UUID) (*GroupSchool, error)

	// FindAll finds all group schools
	FindAll(ctx context.Context, filter shared.Filter) ([]GroupSchool, error)

	// Save creates or updates a group school
	Save(ctx context.Context, groupSchool *GroupSchool) error

	// Delete removes a group school
	Delete(ctx context.Context, id uuid.UUID) error
}

// SchoolRepository defines the interface for school persistence
type SchoolRepository interface {
	// FindByID finds a school by ID
	FindByID(ctx context.Context, id uuid.UUID) (*School, error)

	// FindByGroup finds all schools under a group school
	FindByGroup(ctx context.Context, groupSchoolID uuid.UUID, filter shared.Filter) ([]School, error)

	// FindAll finds all schools
	FindAll(ctx context.Context, filter shared.Filter) ([]School, error)

	// Save creates or updates a school
	Save(ctx context.Context, school *School) error

	// Delete removes a school
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByGroup counts schools under a group school
	CountByGroup(ctx context.Context, groupSchoolID uuid.UUID) (int64, error)
}

// SessionRepository defines the interface for academic session persistence
type SessionRepository interface {
	// FindByID finds a session by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// FindBySchool finds all sessions of a school
	FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) ([]Session, error)

	// FindCurrentBySchool finds the session flagged current for a school
	FindCurrentBySchool(ctx context.Context, schoolID uuid.UUID) (*Session, error)

	// Save creates or updates a session
	Save(ctx context.Context, session *Session) error

	// SetCurrent atomically flags the given session current and clears the
	// flag on every sibling session of the same school
	SetCurrent(ctx context.Context, session *Session) error

	// Delete removes a session
	Delete(ctx context.Context, id uuid.UUID) error
}

// TermRepository defines the interface for term persistence
type TermRepository interface {
	// FindByID finds a term by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Term, error)

	// FindBySession finds all terms of a session
	FindBySession(ctx context.Context, sessionID uuid.UUID, filter shared.Filter) ([]Term, error)

	// FindCurrentBySchool finds the term flagged current within the school's
	// current session
	FindCurrentBySchool(ctx context.Context, schoolID uuid.UUID) (*Term, error)

	// Save creates or updates a term
	Save(ctx context.Context, term *Term) error

	// SetCurrent atomically flags the given term current and clears the flag
	// on every sibling term of the same session
	SetCurrent(ctx context.Context, term *Term) error

	// Delete removes a term
	Delete(ctx context.Context, id uuid.UUID) error
}
