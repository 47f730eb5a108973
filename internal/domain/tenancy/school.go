package tenancy

import (
	"strings"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// School represents a single school within a group school. It is the unit
// of access-control partitioning: authorization checks ultimately reduce to
// whether an actor's school matches an entity's school.
type School struct {
	shared.GroupAggregateRoot
	Name    string
	Email   string
	Phone   string
	Address string
	Active  bool
}

// NewSchool creates a new school under the given group
func NewSchool(groupSchoolID uuid.UUID, name, email, phone, address string) (*School, error) {
	if groupSchoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GROUP", "Group school ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SCHOOL_NAME", "School name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_SCHOOL_NAME", "School name cannot exceed 200 characters")
	}

	s := &School{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupSchoolID),
		Name:               name,
		Email:              email,
		Phone:              phone,
		Address:            address,
		Active:             true,
	}

	s.AddDomainEvent(NewSchoolCreatedEvent(s))

	return s, nil
}

// Deactivate marks the school inactive. Records under it are retained.
func (s *School) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "School is already inactive")
	}
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Activate marks the school active again
func (s *School) Activate() error {
	if s.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "School is already active")
	}
	s.Active = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// UpdateContact updates contact details
func (s *School) UpdateContact(email, phone, address string) {
	s.Email = email
	s.Phone = phone
	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
