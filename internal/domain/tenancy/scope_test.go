package tenancy

import (
	"context"
	"testing"

	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ============================================
// Mock Repositories
// ============================================

type MockSchoolRepository struct {
	mock.Mock
}

func (m *MockSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*School), args.Error(1)
}

func (m *MockSchoolRepository) FindByGroup(ctx context.Context, groupSchoolID uuid.UUID, filter shared.Filter) ([]School, error) {
	args := m.Called(ctx, groupSchoolID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]School), args.Error(1)
}

func (m *MockSchoolRepository) FindAll(ctx context.Context, filter shared.Filter) ([]School, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]School), args.Error(1)
}

func (m *MockSchoolRepository) Save(ctx context.Context, school *School) error {
	args := m.Called(ctx, school)
	return args.Error(0)
}

func (m *MockSchoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSchoolRepository) CountByGroup(ctx context.Context, groupSchoolID uuid.UUID) (int64, error) {
	args := m.Called(ctx, groupSchoolID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) ([]Session, error) {
	args := m.Called(ctx, schoolID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Session), args.Error(1)
}

func (m *MockSessionRepository) FindCurrentBySchool(ctx context.Context, schoolID uuid.UUID) (*Session, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) SetCurrent(ctx context.Context, session *Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTermRepository struct {
	mock.Mock
}

func (m *MockTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*Term, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Term), args.Error(1)
}

func (m *MockTermRepository) FindBySession(ctx context.Context, sessionID uuid.UUID, filter shared.Filter) ([]Term, error) {
	args := m.Called(ctx, sessionID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Term), args.Error(1)
}

func (m *MockTermRepository) FindCurrentBySchool(ctx context.Context, schoolID uuid.UUID) (*Term, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Term), args.Error(1)
}

func (m *MockTermRepository) Save(ctx context.Context, term *Term) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockTermRepository) SetCurrent(ctx context.Context, term *Term) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockTermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestResolver(t *testing.T) (*ScopeResolver, *MockSchoolRepository, *MockSessionRepository, *MockTermRepository) {
	t.Helper()
	schools := new(MockSchoolRepository)
	sessions := new(MockSessionRepository)
	terms := new(MockTermRepository)
	return NewScopeResolver(schools, sessions, terms, zap.NewNop()), schools, sessions, terms
}

func mustRoles(t *testing.T, roles ...identity.Role) identity.RoleSet {
	t.Helper()
	rs, err := identity.NewRoleSet(roles...)
	require.NoError(t, err)
	return rs
}

// ============================================
// ResolveSchoolOfTerm Tests
// ============================================

func TestScopeResolver_ResolveSchoolOfTerm(t *testing.T) {
	resolver, schools, sessions, terms := newTestResolver(t)
	ctx := context.Background()

	school := createTestSchool(t)
	session := createTestSession(t, school.ID)
	term, err := NewTerm(school.GroupSchoolID, session.ID, "First Term", session.StartDate, session.EndDate)
	require.NoError(t, err)

	terms.On("FindByID", ctx, term.ID).Return(term, nil)
	sessions.On("FindByID", ctx, session.ID).Return(session, nil)
	schools.On("FindByID", ctx, school.ID).Return(school, nil)

	got, err := resolver.ResolveSchoolOfTerm(ctx, term.ID)

	require.NoError(t, err)
	assert.Equal(t, school.ID, got.ID)
	terms.AssertExpectations(t)
	sessions.AssertExpectations(t)
	schools.AssertExpectations(t)
}

func TestScopeResolver_ResolveSchoolOfTerm_TermNotFound(t *testing.T) {
	resolver, _, _, terms := newTestResolver(t)
	ctx := context.Background()
	termID := uuid.New()

	terms.On("FindByID", ctx, termID).Return(nil, shared.ErrNotFound)

	_, err := resolver.ResolveSchoolOfTerm(ctx, termID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestScopeResolver_ResolveSchoolOfTerm_DanglingSession(t *testing.T) {
	resolver, _, sessions, terms := newTestResolver(t)
	ctx := context.Background()

	term, err := NewTerm(uuid.New(), uuid.New(), "First Term",
		createTestSession(t, uuid.New()).StartDate, createTestSession(t, uuid.New()).EndDate)
	require.NoError(t, err)

	terms.On("FindByID", ctx, term.ID).Return(term, nil)
	sessions.On("FindByID", ctx, term.SessionID).Return(nil, shared.ErrNotFound)

	_, err = resolver.ResolveSchoolOfTerm(ctx, term.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

// ============================================
// ActorScope Tests
// ============================================

func TestScopeResolver_ActorScope_GlobalRole(t *testing.T) {
	resolver, _, _, _ := newTestResolver(t)

	actor := identity.NewActor(uuid.New(), mustRoles(t, identity.RoleAdmin), uuid.Nil, uuid.Nil)

	scope, err := resolver.ActorScope(context.Background(), actor)

	require.NoError(t, err)
	assert.True(t, scope.IsGlobal())
}

func TestScopeResolver_ActorScope_SchoolRole(t *testing.T) {
	resolver, _, _, _ := newTestResolver(t)
	schoolID := uuid.New()

	actor := identity.NewActor(uuid.New(), mustRoles(t, identity.RoleBursar), schoolID, uuid.New())

	scope, err := resolver.ActorScope(context.Background(), actor)

	require.NoError(t, err)
	assert.False(t, scope.IsGlobal())
	assert.True(t, scope.Contains(schoolID))
	assert.False(t, scope.Contains(uuid.New()))
}

func TestScopeResolver_ActorScope_ICTAdmin(t *testing.T) {
	resolver, schools, _, _ := newTestResolver(t)
	ctx := context.Background()
	groupID := uuid.New()

	schoolA, err := NewSchool(groupID, "School A", "a@smart.sch.ng", "", "")
	require.NoError(t, err)
	schoolB, err := NewSchool(groupID, "School B", "b@smart.sch.ng", "", "")
	require.NoError(t, err)

	schools.On("FindByGroup", ctx, groupID, mock.Anything).Return([]School{*schoolA, *schoolB}, nil)

	actor := identity.NewActor(uuid.New(), mustRoles(t, identity.RoleICTAdmin), schoolA.ID, groupID)

	scope, err := resolver.ActorScope(ctx, actor)

	require.NoError(t, err)
	assert.True(t, scope.Contains(schoolA.ID))
	assert.True(t, scope.Contains(schoolB.ID))
	assert.False(t, scope.Contains(uuid.New()))
}

func TestScopeResolver_ActorScope_ICTAdminWithoutGroup(t *testing.T) {
	resolver, _, _, _ := newTestResolver(t)
	schoolID := uuid.New()

	// School detached from any group degrades to a single-school scope.
	actor := identity.NewActor(uuid.New(), mustRoles(t, identity.RoleICTAdmin), schoolID, uuid.Nil)

	scope, err := resolver.ActorScope(context.Background(), actor)

	require.NoError(t, err)
	assert.True(t, scope.Contains(schoolID))
	assert.False(t, scope.IsGlobal())
}
