package schools

import (
	"context"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/access"
	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/tenancy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service provides application-level tenancy operations: group schools,
// schools, academic sessions and terms
type Service struct {
	groups   tenancy.GroupSchoolRepository
	schools  tenancy.SchoolRepository
	sessions tenancy.SessionRepository
	terms    tenancy.TermRepository
	resolver *tenancy.ScopeResolver
	gate     *access.Gate
	logger   *zap.Logger
}

// NewService creates a new tenancy Service
func NewService(
	groups tenancy.GroupSchoolRepository,
	schools tenancy.SchoolRepository,
	sessions tenancy.SessionRepository,
	terms tenancy.TermRepository,
	resolver *tenancy.ScopeResolver,
	gate *access.Gate,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		groups:   groups,
		schools:  schools,
		sessions: sessions,
		terms:    terms,
		resolver: resolver,
		gate:     gate,
		logger:   logger,
	}
}

// CreateGroupSchoolRequest carries the data for a new group school
type CreateGroupSchoolRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateSchoolRequest carries the data for a new school under a group
type CreateSchoolRequest struct {
	GroupSchoolID uuid.UUID `json:"group_school_id" binding:"required"`
	Name          string    `json:"name" binding:"required"`
	Email         string    `json:"email" binding:"required,email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
}

// CreateSessionRequest carries the data for a new academic session
type CreateSessionRequest struct {
	SchoolID  uuid.UUID `json:"school_id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// CreateTermRequest carries the data for a new term within a session
type CreateTermRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// SchoolResponse represents a school in API responses
type SchoolResponse struct {
	ID            uuid.UUID `json:"id"`
	GroupSchoolID uuid.UUID `json:"group_school_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// SessionResponse represents an academic session in API responses
type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	SchoolID  uuid.UUID `json:"school_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsCurrent bool      `json:"is_current"`
}

// TermResponse represents a term in API responses
type TermResponse struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsCurrent bool      `json:"is_current"`
}

// CreateGroupSchool creates a new group school. Only global roles may
// create tenants.
func (s *Service) CreateGroupSchool(ctx context.Context, actor identity.Actor, req CreateGroupSchoolRequest) (*tenancy.GroupSchool, error) {
	if !actor.Roles.HasGlobal() {
		return nil, shared.ErrForbidden
	}

	gs, err := tenancy.NewGroupSchool(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.groups.Save(ctx, gs); err != nil {
		return nil, err
	}
	gs.ClearDomainEvents()

	s.logger.Info("group school created",
		zap.String("group_school_id", gs.ID.String()),
		zap.String("name", gs.Name))

	return gs, nil
}

// CreateSchool creates a new school under a group school
func (s *Service) CreateSchool(ctx context.Context, actor identity.Actor, req CreateSchoolRequest) (*SchoolResponse, error) {
	if _, err := s.groups.FindByID(ctx, req.GroupSchoolID); err != nil {
		return nil, err
	}

	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	// New schools have no ID yet, so the gate check runs against the
	// actor's own school for group-scoped roles.
	if err := s.gate.Authorize(actor, scope, access.OpSchoolManage, actor.SchoolID); err != nil {
		return nil, err
	}
	if !actor.Roles.HasGlobal() && actor.GroupSchoolID != req.GroupSchoolID {
		return nil, shared.ErrForbidden
	}

	school, err := tenancy.NewSchool(req.GroupSchoolID, req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.schools.Save(ctx, school); err != nil {
		return nil, err
	}
	school.ClearDomainEvents()

	s.logger.Info("school created",
		zap.String("school_id", school.ID.String()),
		zap.String("group_school_id", school.GroupSchoolID.String()))

	return toSchoolResponse(school), nil
}

// ListSchools lists the schools in the actor's scope
func (s *Service) ListSchools(ctx context.Context, actor identity.Actor, filter shared.Filter) ([]SchoolResponse, error) {
	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	var found []tenancy.School
	if scope.IsGlobal() {
		found, err = s.schools.FindAll(ctx, filter)
	} else {
		found, err = s.schools.FindByGroup(ctx, actor.GroupSchoolID, filter)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]SchoolResponse, 0, len(found))
	for i := range found {
		if !scope.Contains(found[i].ID) && !scope.IsGlobal() {
			continue
		}
		responses = append(responses, *toSchoolResponse(&found[i]))
	}
	return responses, nil
}

// CreateSession creates a new academic session for a school
func (s *Service) CreateSession(ctx context.Context, actor identity.Actor, req CreateSessionRequest) (*SessionResponse, error) {
	school, err := s.schools.FindByID(ctx, req.SchoolID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeManage(ctx, actor, school.ID); err != nil {
		return nil, err
	}

	sess, err := tenancy.NewSession(school.GroupSchoolID, school.ID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	sess.ClearDomainEvents()

	return toSessionResponse(sess), nil
}

// SetCurrentSession flags a session as the school's current session,
// atomically clearing the flag on its siblings
func (s *Service) SetCurrentSession(ctx context.Context, actor identity.Actor, sessionID uuid.UUID) (*SessionResponse, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeManage(ctx, actor, sess.SchoolID); err != nil {
		return nil, err
	}

	sess.SetCurrent()
	if err := s.sessions.SetCurrent(ctx, sess); err != nil {
		return nil, err
	}
	sess.ClearDomainEvents()

	s.logger.Info("current session changed",
		zap.String("school_id", sess.SchoolID.String()),
		zap.String("session_id", sess.ID.String()))

	return toSessionResponse(sess), nil
}

// CreateTerm creates a new term within an academic session
func (s *Service) CreateTerm(ctx context.Context, actor identity.Actor, req CreateTermRequest) (*TermResponse, error) {
	sess, err := s.sessions.FindByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeManage(ctx, actor, sess.SchoolID); err != nil {
		return nil, err
	}

	term, err := tenancy.NewTerm(sess.GroupSchoolID, sess.ID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.terms.Save(ctx, term); err != nil {
		return nil, err
	}
	term.ClearDomainEvents()

	return toTermResponse(term), nil
}

// SetCurrentTerm flags a term as its session's current term, atomically
// clearing the flag on its siblings
func (s *Service) SetCurrentTerm(ctx context.Context, actor identity.Actor, termID uuid.UUID) (*TermResponse, error) {
	school, err := s.resolver.ResolveSchoolOfTerm(ctx, termID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeManage(ctx, actor, school.ID); err != nil {
		return nil, err
	}

	term, err := s.terms.FindByID(ctx, termID)
	if err != nil {
		return nil, err
	}

	term.SetCurrent()
	if err := s.terms.SetCurrent(ctx, term); err != nil {
		return nil, err
	}
	term.ClearDomainEvents()

	return toTermResponse(term), nil
}

// CurrentTerm returns the term flagged current for a school
func (s *Service) CurrentTerm(ctx context.Context, actor identity.Actor, schoolID uuid.UUID) (*TermResponse, error) {
	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, scope, access.OpFeeRead, schoolID); err != nil {
		return nil, err
	}

	term, err := s.terms.FindCurrentBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return toTermResponse(term), nil
}

func (s *Service) authorizeManage(ctx context.Context, actor identity.Actor, schoolID uuid.UUID) error {
	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return err
	}
	return s.gate.Authorize(actor, scope, access.OpSessionManage, schoolID)
}

func toSchoolResponse(school *tenancy.School) *SchoolResponse {
	return &SchoolResponse{
		ID:            school.ID,
		GroupSchoolID: school.GroupSchoolID,
		Name:          school.Name,
		Email:         school.Email,
		Phone:         school.Phone,
		Address:       school.Address,
		Active:        school.Active,
		CreatedAt:     school.CreatedAt,
	}
}

func toSessionResponse(sess *tenancy.Session) *SessionResponse {
	return &SessionResponse{
		ID:        sess.ID,
		SchoolID:  sess.SchoolID,
		Name:      sess.Name,
		StartDate: sess.StartDate,
		EndDate:   sess.EndDate,
		IsCurrent: sess.IsCurrent,
	}
}

func toTermResponse(term *tenancy.Term) *TermResponse {
	return &TermResponse{
		ID:        term.ID,
		SessionID: term.SessionID,
		Name:      term.Name,
		StartDate: term.StartDate,
		EndDate:   term.EndDate,
		IsCurrent: term.IsCurrent,
	}
}
