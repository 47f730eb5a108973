package tenancy

import (
	"context"
	"errors"

	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scope is the set of schools an actor is authorized to operate within.
// A global scope covers every school in the system.
type Scope struct {
	global  bool
	schools map[uuid.UUID]struct{}
}

// GlobalScope returns a scope covering all schools
func GlobalScope() Scope {
	return Scope{global: true}
}

// NewScope returns a scope covering exactly the given schools
func NewScope(schoolIDs ...uuid.UUID) Scope {
	schools := make(map[uuid.UUID]struct{}, len(schoolIDs))
	for _, id := range schoolIDs {
		if id != uuid.Nil {
			schools[id] = struct{}{}
		}
	}
	return Scope{schools: schools}
}

// IsGlobal returns true if the scope covers every school
func (s Scope) IsGlobal() bool {
	return s.global
}

// Contains returns true if the school is within scope. Pure membership
// test, no side effects.
func (s Scope) Contains(schoolID uuid.UUID) bool {
	if s.global {
		return true
	}
	_, ok := s.schools[schoolID]
	return ok
}

// SchoolIDs returns the explicit school set; empty for a global scope
func (s Scope) SchoolIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.schools))
	for id := range s.schools {
		ids = append(ids, id)
	}
	return ids
}

// IsEmpty returns true if the scope covers no school at all
func (s Scope) IsEmpty() bool {
	return !s.global && len(s.schools) == 0
}

// ScopeResolver resolves the school hierarchy and answers which schools an
// actor may touch. It is the single place that walks Term -> Session ->
// School links.
type ScopeResolver struct {
	schools  SchoolRepository
	sessions SessionRepository
	terms    TermRepository
	logger   *zap.Logger
}

// NewScopeResolver creates a new ScopeResolver
func NewScopeResolver(
	schools SchoolRepository,
	sessions SessionRepository,
	terms TermRepository,
	logger *zap.Logger,
) *ScopeResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScopeResolver{
		schools:  schools,
		sessions: sessions,
		terms:    terms,
		logger:   logger,
	}
}

// ResolveSchoolOfTerm walks Term -> Session -> School and returns the
// school the term transitively belongs to. Any dangling link surfaces as
// a not-found error.
func (r *ScopeResolver) ResolveSchoolOfTerm(ctx context.Context, termID uuid.UUID) (*School, error) {
	term, err := r.terms.FindByID(ctx, termID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Term not found")
		}
		return nil, err
	}

	session, err := r.sessions.FindByID(ctx, term.SessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Session not found for term")
		}
		return nil, err
	}

	school, err := r.schools.FindByID(ctx, session.SchoolID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "School not found for session")
		}
		return nil, err
	}

	return school, nil
}

// ActorScope returns the set of schools the actor may operate on: the
// actor's own school for students, bursars and principals; every school
// under the actor's group for ICT administrators; all schools for admin
// and proprietor roles.
func (r *ScopeResolver) ActorScope(ctx context.Context, actor identity.Actor) (Scope, error) {
	if actor.Roles.HasGlobal() {
		return GlobalScope(), nil
	}

	if actor.Is(identity.RoleICTAdmin) {
		return r.groupScope(ctx, actor)
	}

	return NewScope(actor.SchoolID), nil
}

// groupScope resolves the ICT administrator scope: all schools of the
// actor's group. A school detached from any group would lock the
// administrator out entirely, so that data-integrity gap degrades to a
// single-school scope with a warning instead.
func (r *ScopeResolver) groupScope(ctx context.Context, actor identity.Actor) (Scope, error) {
	if actor.GroupSchoolID == uuid.Nil {
		r.logger.Warn("ICT administrator's school has no group school; falling back to single-school scope",
			zap.String("user_id", actor.UserID.String()),
			zap.String("school_id", actor.SchoolID.String()))
		return NewScope(actor.SchoolID), nil
	}

	schools, err := r.schools.FindByGroup(ctx, actor.GroupSchoolID, shared.Filter{Page: 1, PageSize: 500})
	if err != nil {
		return Scope{}, err
	}
	if len(schools) == 0 {
		r.logger.Warn("Group school has no schools; falling back to single-school scope",
			zap.String("user_id", actor.UserID.String()),
			zap.String("group_school_id", actor.GroupSchoolID.String()))
		return NewScope(actor.SchoolID), nil
	}

	ids := make([]uuid.UUID, 0, len(schools))
	for i := range schools {
		ids = append(ids, schools[i].ID)
	}
	return NewScope(ids...), nil
}
