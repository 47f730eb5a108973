package identity

import (
	"sort"
	"strings"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
)

// Role represents a functional role a user may hold
type Role string

const (
	RoleStudent    Role = "student"
	RoleBursar     Role = "bursar"
	RolePrincipal  Role = "principal"
	RoleICTAdmin   Role = "ict_admin"
	RoleAdmin      Role = "admin"
	RoleProprietor Role = "proprietor"
)

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleBursar, RolePrincipal, RoleICTAdmin, RoleAdmin, RoleProprietor:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// IsGlobal returns true for roles whose scope spans every school
func (r Role) IsGlobal() bool {
	return r == RoleAdmin || r == RoleProprietor
}

// RoleSet is a set of roles. Users may hold several roles at once; every
// authorization decision operates on the whole set, never on a single
// discriminant role field.
type RoleSet map[Role]struct{}

// NewRoleSet builds a role set from the given roles, rejecting unknown ones
func NewRoleSet(roles ...Role) (RoleSet, error) {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(r))
		}
		set[r] = struct{}{}
	}
	return set, nil
}

// ParseRoleSet builds a role set from string values (e.g. JWT claims)
func ParseRoleSet(values []string) (RoleSet, error) {
	roles := make([]Role, 0, len(values))
	for _, v := range values {
		roles = append(roles, Role(strings.ToLower(strings.TrimSpace(v))))
	}
	return NewRoleSet(roles...)
}

// Has returns true if the set contains the role
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAny returns true if the set contains at least one of the given roles
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// HasGlobal returns true if the set contains a role with unrestricted scope
func (s RoleSet) HasGlobal() bool {
	return s.HasAny(RoleAdmin, RoleProprietor)
}

// IsEmpty returns true if no roles are present
func (s RoleSet) IsEmpty() bool {
	return len(s) == 0
}

// Strings returns the roles as a sorted string slice
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// Roles returns the roles as a sorted slice
func (s RoleSet) Roles() []Role {
	strs := s.Strings()
	out := make([]Role, len(strs))
	for i, r := range strs {
		out[i] = Role(r)
	}
	return out
}
