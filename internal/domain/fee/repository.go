package fee

import (
	"context"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter defines filtering options for fee queries
type Filter struct {
	shared.Filter
	TermID     *uuid.UUID // Filter by term
	FeeType    *Type      // Filter by fee type
	IsApproved *bool      // Filter by approval state
	IsActive   *bool      // Filter by activation state
}

// Repository defines the interface for fee persistence.
//
// Storage must carry a unique constraint on (school_id, term_id, name):
// the application-level duplicate check alone is insufficient under
// concurrent creation, so Save is required to translate the storage-level
// uniqueness violation into shared.ErrDuplicateFee.
type Repository interface {
	// FindByID finds a fee by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Fee, error)

	// FindByIDForGroup finds a fee by ID within a group school
	FindByIDForGroup(ctx context.Context, groupSchoolID, id uuid.UUID) (*Fee, error)

	// FindByNameTermSchool finds the fee matching the composite identity
	// triple, or shared.ErrNotFound
	FindByNameTermSchool(ctx context.Context, schoolID, termID uuid.UUID, name string) (*Fee, error)

	// FindBySchool finds all fees of a school with filtering
	FindBySchool(ctx context.Context, schoolID uuid.UUID, filter Filter) ([]Fee, error)

	// FindBySchools finds all fees across the given schools with filtering
	FindBySchools(ctx context.Context, schoolIDs []uuid.UUID, filter Filter) ([]Fee, error)

	// FindAll finds all fees regardless of school (global-scope actors)
	FindAll(ctx context.Context, filter Filter) ([]Fee, error)

	// FindPayableBySchool finds approved, active fees of a school; when
	// termID is non-nil the result is restricted to that term
	FindPayableBySchool(ctx context.Context, schoolID uuid.UUID, termID *uuid.UUID) ([]Fee, error)

	// Save creates or updates a fee, translating a composite-key
	// uniqueness violation into shared.ErrDuplicateFee
	Save(ctx context.Context, fee *Fee) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, fee *Fee) error

	// Delete removes a fee
	Delete(ctx context.Context, id uuid.UUID) error

	// CountBySchool counts fees of a school with optional filters
	CountBySchool(ctx context.Context, schoolID uuid.UUID, filter Filter) (int64, error)
}
