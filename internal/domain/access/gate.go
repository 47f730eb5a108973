package access

import (
	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/tenancy"
	"github.com/google/uuid"
)

// Operation identifies a guarded core operation
type Operation string

const (
	OpFeeCreate         Operation = "fee:create"
	OpFeeApprove        Operation = "fee:approve"
	OpFeeDeactivate     Operation = "fee:deactivate"
	OpFeeRead           Operation = "fee:read"
	OpPaymentRecordCash Operation = "payment:record_cash"
	OpPaymentPayOwn     Operation = "payment:pay_own"
	OpPaymentRead       Operation = "payment:read"
	OpSchoolManage      Operation = "school:manage"
	OpSessionManage     Operation = "session:manage"
)

// scopeRule determines how a granted operation is bounded
type scopeRule int

const (
	// scopeOwnSchool restricts the operation to the actor's own school
	scopeOwnSchool scopeRule = iota
	// scopeGroup restricts the operation to schools within the actor's
	// resolved scope (the group for ICT administrators)
	scopeGroup
	// scopeAny places no school restriction on the operation
	scopeAny
)

// grant pairs a role with the scope rule that bounds its operations
type grant struct {
	role  identity.Role
	scope scopeRule
}

// rules is the authoritative permission table. Any (role, operation) pair
// not listed here is denied. Each role's grant carries its own scope rule:
// a multi-role actor takes the union of grants, with each grant bounded
// independently.
var rules = map[Operation][]grant{
	OpFeeCreate: {
		{identity.RoleBursar, scopeOwnSchool},
		{identity.RoleAdmin, scopeAny},
		{identity.RoleProprietor, scopeAny},
	},
	OpFeeApprove: {
		{identity.RolePrincipal, scopeOwnSchool},
		{identity.RoleAdmin, scopeAny},
		{identity.RoleProprietor, scopeAny},
	},
	OpFeeDeactivate: {
		{identity.RolePrincipal, scopeOwnSchool},
		{identity.RoleAdmin, scopeAny},
		{identity.RoleProprietor, scopeAny},
	},
	OpFeeRead: {
		{identity.RoleStudent, scopeOwnSchool},
		{identity.RoleBursar, scopeOwnSchool},
		{identity.RolePrincipal, scopeOwnSchool},
		{identity.RoleICTAdmin, scopeGroup},
		{identity.RoleAdmin, scopeAny},
		{identity.RoleProprietor, scopeAny},
	},
	OpPaymentRecordCash: {
		{identity.RoleBursar, scopeOwnSchool},
		{identity.RoleAdmin, scopeAny},
		{identity.RoleProprietor, scopeAny},
	},
	OpPaymentPayOwn: {
		{identity.RoleStudent, scopeOwnSchool},
	},
	OpPaymentRead: {
		{identity.RoleStudent, scopeOwnSchool},
		{identity.RoleBursar, scopeOwnSchool},
		{identity.RolePrincipal, scopeOwnSchool},
		{identity.RoleICTAdmin, scopeGroup},
		{identity.RoleAdmin, scopeAny},
		{identity.RoleProprietor, scopeAny},
	},
	OpSchoolManage: {
		{identity.RoleICTAdmin, scopeGroup},
		{identity.RoleAdmin, scopeAny},
		{identity.RoleProprietor, scopeAny},
	},
	OpSessionManage: {
		{identity.RoleICTAdmin, scopeGroup},
		{identity.RoleAdmin, scopeAny},
		{identity.RoleProprietor, scopeAny},
	},
}

// Gate is the single authorization chokepoint consulted before every
// scoped read or mutation in the fee registry and payment ledger.
type Gate struct{}

// NewGate creates a new Gate
func NewGate() *Gate {
	return &Gate{}
}

// Authorize maps (actor, operation, target school) to allow or deny.
// The actor's resolved scope is passed in so the gate stays a pure
// function; deny is the default for anything the rule table omits.
func (g *Gate) Authorize(actor identity.Actor, scope tenancy.Scope, op Operation, targetSchoolID uuid.UUID) error {
	grants, ok := rules[op]
	if !ok {
		return shared.ErrForbidden
	}

	for _, gr := range grants {
		if !actor.Roles.Has(gr.role) {
			continue
		}
		switch gr.scope {
		case scopeAny:
			return nil
		case scopeOwnSchool:
			if actor.SchoolID != uuid.Nil && actor.SchoolID == targetSchoolID {
				return nil
			}
		case scopeGroup:
			if scope.Contains(targetSchoolID) {
				return nil
			}
		}
	}

	return shared.NewDomainError("FORBIDDEN", "Actor is not permitted to perform "+string(op)+" on this school")
}

// Allows reports whether the actor may perform the operation without
// returning the denial error
func (g *Gate) Allows(actor identity.Actor, scope tenancy.Scope, op Operation, targetSchoolID uuid.UUID) bool {
	return g.Authorize(actor, scope, op, targetSchoolID) == nil
}
