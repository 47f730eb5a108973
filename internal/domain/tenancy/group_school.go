package tenancy

import (
	"strings"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
)

// GroupSchool represents the top-level tenant: a network of schools under
// one proprietor (e.g. a mission or franchise). It is the aggregate root
// for tenancy and the scoping anchor for every record beneath it.
type GroupSchool struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	LogoURL     string
}

// NewGroupSchool creates a new group school
func NewGroupSchool(name, description string) (*GroupSchool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Group school name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Group school name cannot exceed 200 characters")
	}

	gs := &GroupSchool{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}

	gs.AddDomainEvent(NewGroupSchoolCreatedEvent(gs))

	return gs, nil
}

// UpdateDescription updates the descriptive fields. Structural fields are
// immutable once the group has schools.
func (gs *GroupSchool) UpdateDescription(description, logoURL string) {
	gs.Description = description
	gs.LogoURL = logoURL
	gs.UpdatedAt = time.Now()
	gs.IncrementVersion()
}

// Rename changes the display name of the group
func (gs *GroupSchool) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group school name cannot be empty")
	}
	gs.Name = name
	gs.UpdatedAt = time.Now()
	gs.IncrementVersion()
	return nil
}
