package identity

import (
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// UserCreatedEvent is raised when a new user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	SchoolID uuid.UUID `json:"school_id"`
	Email    string    `json:"email"`
	Roles    []string  `json:"roles"`
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return "UserCreated"
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserCreated", "User", u.ID, u.GroupSchoolID),
		UserID:          u.ID,
		SchoolID:        u.SchoolID,
		Email:           u.Email,
		Roles:           u.Roles.Strings(),
	}
}
