package identity

import (
	"github.com/google/uuid"
)

// Actor is the resolved caller of a core operation. It is supplied by the
// auth subsystem for every call; the core trusts it and performs no
// credential verification of its own.
type Actor struct {
	UserID        uuid.UUID
	Roles         RoleSet
	SchoolID      uuid.UUID
	GroupSchoolID uuid.UUID
}

// NewActor creates an actor value
func NewActor(userID uuid.UUID, roles RoleSet, schoolID, groupSchoolID uuid.UUID) Actor {
	return Actor{
		UserID:        userID,
		Roles:         roles,
		SchoolID:      schoolID,
		GroupSchoolID: groupSchoolID,
	}
}

// Is returns true if the actor holds the given role
func (a Actor) Is(role Role) bool {
	return a.Roles.Has(role)
}

// IsSelf returns true if the actor is the given user
func (a Actor) IsSelf(userID uuid.UUID) bool {
	return a.UserID == userID
}
