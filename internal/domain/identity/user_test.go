package identity

import (
	"testing"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestStudent(t *testing.T) *User {
	t.Helper()
	roles, err := NewRoleSet(RoleStudent)
	require.NoError(t, err)
	u, err := NewUser(uuid.New(), uuid.New(), "Chinedu", "Okafor", "chinedu.okafor@smart.sch.ng", roles)
	require.NoError(t, err)
	return u
}

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role  Role
		valid bool
	}{
		{RoleStudent, true},
		{RoleBursar, true},
		{RolePrincipal, true},
		{RoleICTAdmin, true},
		{RoleAdmin, true},
		{RoleProprietor, true},
		{Role("teacher"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.IsValid())
		})
	}
}

func TestRole_IsGlobal(t *testing.T) {
	assert.True(t, RoleAdmin.IsGlobal())
	assert.True(t, RoleProprietor.IsGlobal())
	assert.False(t, RoleBursar.IsGlobal())
	assert.False(t, RoleICTAdmin.IsGlobal())
}

func TestNewRoleSet(t *testing.T) {
	rs, err := NewRoleSet(RoleBursar, RolePrincipal)

	require.NoError(t, err)
	assert.True(t, rs.Has(RoleBursar))
	assert.True(t, rs.Has(RolePrincipal))
	assert.False(t, rs.Has(RoleStudent))
	assert.True(t, rs.HasAny(RoleStudent, RolePrincipal))
	assert.False(t, rs.HasGlobal())
}

func TestNewRoleSet_InvalidRole(t *testing.T) {
	_, err := NewRoleSet(RoleBursar, Role("janitor"))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ROLE", domainErr.Code)
}

func TestParseRoleSet(t *testing.T) {
	rs, err := ParseRoleSet([]string{"student", "bursar"})

	require.NoError(t, err)
	assert.True(t, rs.Has(RoleStudent))
	assert.True(t, rs.Has(RoleBursar))
}

func TestRoleSet_Strings_Sorted(t *testing.T) {
	rs, err := NewRoleSet(RoleProprietor, RoleBursar, RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, []string{"admin", "bursar", "proprietor"}, rs.Strings())
}

func TestNewUser(t *testing.T) {
	u := createTestStudent(t)

	assert.Equal(t, "Chinedu Okafor", u.FullName())
	assert.Equal(t, UserStatusActive, u.Status)
	assert.True(t, u.Roles.Has(RoleStudent))
	require.Len(t, u.GetDomainEvents(), 1)
	assert.Equal(t, "UserCreated", u.GetDomainEvents()[0].EventType())
}

func TestNewUser_Validation(t *testing.T) {
	roles, err := NewRoleSet(RoleStudent)
	require.NoError(t, err)

	tests := []struct {
		name      string
		firstName string
		lastName  string
		email     string
		schoolID  uuid.UUID
		roles     RoleSet
		wantCode  string
	}{
		{
			name:      "missing name",
			firstName: "  ",
			lastName:  "Okafor",
			email:     "a@b.ng",
			schoolID:  uuid.New(),
			roles:     roles,
			wantCode:  "INVALID_USER_NAME",
		},
		{
			name:      "bad email",
			firstName: "Chinedu",
			lastName:  "Okafor",
			email:     "not-an-email",
			schoolID:  uuid.New(),
			roles:     roles,
			wantCode:  "INVALID_EMAIL",
		},
		{
			name:      "no roles",
			firstName: "Chinedu",
			lastName:  "Okafor",
			email:     "a@b.ng",
			schoolID:  uuid.New(),
			roles:     RoleSet{},
			wantCode:  "INVALID_ROLE",
		},
		{
			name:      "school-scoped user without school",
			firstName: "Chinedu",
			lastName:  "Okafor",
			email:     "a@b.ng",
			schoolID:  uuid.Nil,
			roles:     roles,
			wantCode:  "INVALID_SCHOOL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(uuid.New(), tt.schoolID, tt.firstName, tt.lastName, tt.email, tt.roles)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestNewUser_GlobalRoleWithoutSchool(t *testing.T) {
	roles, err := NewRoleSet(RoleAdmin)
	require.NoError(t, err)

	u, err := NewUser(uuid.New(), uuid.Nil, "Ada", "Eze", "ada@smart.sch.ng", roles)

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, u.SchoolID)
}

func TestUser_GrantAndRevokeRole(t *testing.T) {
	u := createTestStudent(t)

	require.NoError(t, u.GrantRole(RoleBursar))
	assert.True(t, u.Roles.Has(RoleBursar))

	err := u.GrantRole(RoleBursar)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

	require.NoError(t, u.RevokeRole(RoleBursar))
	assert.False(t, u.Roles.Has(RoleBursar))
}

func TestUser_RevokeLastRole(t *testing.T) {
	u := createTestStudent(t)

	err := u.RevokeRole(RoleStudent)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	assert.True(t, u.Roles.Has(RoleStudent))
}

func TestUser_Actor(t *testing.T) {
	u := createTestStudent(t)

	actor := u.Actor()

	assert.Equal(t, u.ID, actor.UserID)
	assert.Equal(t, u.SchoolID, actor.SchoolID)
	assert.Equal(t, u.GroupSchoolID, actor.GroupSchoolID)
	assert.True(t, actor.Is(RoleStudent))
	assert.True(t, actor.IsSelf(u.ID))
	assert.False(t, actor.IsSelf(uuid.New()))
}
