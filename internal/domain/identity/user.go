package identity

import (
	"strings"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// IsValid checks if the status is valid
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// User represents a person known to the system: a student, a staff member
// or an administrator. Token issuance belongs to the auth subsystem; the
// user carries only the credential hash, the role set and the school
// anchor.
type User struct {
	shared.GroupAggregateRoot
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	RegNumber    string // student registration number, empty for staff
	PasswordHash string
	SchoolID     uuid.UUID
	Roles        RoleSet
	Status       UserStatus
}

// NewUser creates a new user attached to a school
func NewUser(groupSchoolID, schoolID uuid.UUID, firstName, lastName, email string, roles RoleSet) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_USER_NAME", "First and last name are required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if roles.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ROLE", "User must hold at least one role")
	}
	if schoolID == uuid.Nil && !roles.HasGlobal() {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "Non-global users must belong to a school")
	}

	u := &User{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupSchoolID),
		FirstName:          firstName,
		LastName:           lastName,
		Email:              email,
		SchoolID:           schoolID,
		Roles:              roles,
		Status:             UserStatusActive,
	}

	u.AddDomainEvent(NewUserCreatedEvent(u))

	return u, nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor builds the Actor value for this user
func (u *User) Actor() Actor {
	return NewActor(u.ID, u.Roles, u.SchoolID, u.GroupSchoolID)
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("INVALID_PASSWORD", "Unable to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangePassword verifies the old password before setting the new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// VerifyPassword checks the given password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// GrantRole adds a role to the user's role set
func (u *User) GrantRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	if u.Roles.Has(role) {
		return shared.NewDomainError("ALREADY_EXISTS", "User already holds role "+string(role))
	}
	u.Roles[role] = struct{}{}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RevokeRole removes a role from the user's role set
func (u *User) RevokeRole(role Role) error {
	if !u.Roles.Has(role) {
		return shared.NewDomainError("NOT_FOUND", "User does not hold role "+string(role))
	}
	if len(u.Roles) == 1 {
		return shared.NewDomainError("INVALID_STATE", "Cannot revoke the user's last role")
	}
	delete(u.Roles, role)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Deactivate disables the user account
func (u *User) Deactivate() error {
	if u.Status == UserStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.Status = UserStatusInactive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Activate re-enables the user account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}
